package utils

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

var programGenres = []string{
	"新闻", "综艺", "电视剧", "纪录片", "体育", "少儿", "电影", "访谈", "财经", "音乐",
}

var programWords = []string{
	"晨光", "星空", "城市", "人间", "故事", "周刊", "直播", "天天", "快乐", "探索",
	"精选", "时光", "家园", "之声", "大赛", "风云", "视界", "今夜", "午间", "经典",
}

func GenerateRandomProgramName() string {
	name := ""
	nameLength := rand.Intn(2) + 1
	for i := 0; i < nameLength; i++ {
		name += programWords[rand.Intn(len(programWords))]
	}
	return name + programGenres[rand.Intn(len(programGenres))]
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
var digits = "0123456789"

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// GenerateSlotLabels 生成从 firstHour 点开始、每小时一个的时段名称，例如 "06:00"
func GenerateSlotLabels(firstHour int, slots int) []string {
	labels := make([]string, slots)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:00", (firstHour+i)%24)
	}
	return labels
}

// GenerateRandomRatingDataset 随机生成一个数据集，收视率保留一位小数，
// 每个节目有一个随机的黄金时段，越接近黄金时段收视率越高
func GenerateRandomRatingDataset(programs int, firstHour int, slots int) *domain.RatingDataset {
	ds := &domain.RatingDataset{
		Name:        "收视率数据集" + GenerateRandomID(3, 3),
		Description: "随机生成的收视率数据集" + GenerateRandomID(10, 5),
		SlotLabels:  GenerateSlotLabels(firstHour, slots),
		Programs:    make([]domain.ProgramRating, 0, programs),
	}

	seen := make(map[string]bool)
	for len(ds.Programs) < programs {
		name := GenerateRandomProgramName()
		if seen[name] {
			// 名称重复时加上随机后缀
			name += GenerateRandomID(0, 2)
			if seen[name] {
				continue
			}
		}
		seen[name] = true

		peak := 0
		if slots > 0 {
			peak = rand.Intn(slots)
		}
		ratings := make([]float64, slots)
		for i := range ratings {
			distance := math.Abs(float64(i - peak))
			rating := 0.6*math.Exp(-distance/3) + rand.Float64()*0.2
			ratings[i] = math.Round(rating*10) / 10
		}

		ds.Programs = append(ds.Programs, domain.ProgramRating{
			Name:    name,
			Slug:    GenerateProgramSlug(name),
			Ratings: ratings,
		})
	}

	return ds
}
