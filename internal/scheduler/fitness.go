package scheduler

// Fitness 计算节目表的总收视率。
// 不在表中的节目，或者时段下标超出了该节目已知收视率长度的，贡献为 0。
func Fitness(schedule Schedule, table RatingTable) float64 {
	total := 0.0
	for slot, program := range schedule {
		ratings, ok := table[program]
		if !ok || slot >= len(ratings) {
			continue
		}
		total += ratings[slot]
	}
	return total
}

// UpperBound 返回每个时段最高收视率之和，任何节目表的适应度都不会超过这个值
func UpperBound(table RatingTable, slots int) float64 {
	bound := 0.0
	for slot := 0; slot < slots; slot++ {
		best := 0.0
		for _, ratings := range table {
			if slot < len(ratings) && ratings[slot] > best {
				best = ratings[slot]
			}
		}
		bound += best
	}
	return bound
}
