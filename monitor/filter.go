package monitor

import "cpuwatch/model"

// Filter keeps the records whose CPUPercent is strictly above threshold, in
// input order. The idle pseudo-process is never kept.
func Filter(records []model.ProcessRecord, threshold float64) []model.ProcessRecord {
	heavy := make([]model.ProcessRecord, 0)
	for _, r := range records {
		if model.IsIdleSentinel(r) {
			continue
		}
		if r.CPUPercent > threshold {
			heavy = append(heavy, r)
		}
	}
	return heavy
}
