package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

// printSchedule 以表格输出每个时段的节目，最后一行为总收视率
func printSchedule(w io.Writer, res *domain.ScheduleResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "时段\t节目\t收视率")
	for _, slot := range res.Slots {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", slot.Label, slot.Program, slot.Rating)
	}
	fmt.Fprintf(tw, "总收视率\t\t%.2f\n", res.TotalRating)

	return tw.Flush()
}

func printTrials(w io.Writer, results []*domain.ScheduleResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "种子\t迭代次数\t总收视率")
	for _, res := range results {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\n", res.Seed, res.Generations, res.TotalRating)
	}

	return tw.Flush()
}

// bestResult 返回总收视率最高的结果，相同时取靠前的
func bestResult(results []*domain.ScheduleResult) *domain.ScheduleResult {
	best := results[0]
	for _, res := range results[1:] {
		if res.TotalRating > best.TotalRating {
			best = res
		}
	}
	return best
}
