// Package stats keeps in-process request statistics exposed on /sys/stats.
package stats

import (
	"os"
	"sync"
	"time"
)

type Statistic struct {
	mutex     sync.RWMutex
	Hostname  string
	StartTime time.Time
	ProcessID int

	// responses by status code, cumulative since start
	ResponseCounts map[string]int
	TotalRespTime  time.Duration
	TotalRespSize  int64

	// pipeline counters
	ImagesIngested int
	ImagesDeleted  int
}

func NewStatistic() *Statistic {
	hostname, _ := os.Hostname()
	return &Statistic{
		Hostname:       hostname,
		StartTime:      time.Now(),
		ProcessID:      os.Getpid(),
		ResponseCounts: make(map[string]int),
	}
}

// Record accounts one finished request.
func (stat *Statistic) Record(statusCode string, duration time.Duration, size int) {
	stat.mutex.Lock()
	defer stat.mutex.Unlock()
	stat.ResponseCounts[statusCode]++
	stat.TotalRespTime += duration
	if size > 0 {
		stat.TotalRespSize += int64(size)
	}
}

// RecordIngest bumps the ingestion counter.
func (stat *Statistic) RecordIngest() {
	stat.mutex.Lock()
	defer stat.mutex.Unlock()
	stat.ImagesIngested++
}

// RecordDelete bumps the deletion counter.
func (stat *Statistic) RecordDelete() {
	stat.mutex.Lock()
	defer stat.mutex.Unlock()
	stat.ImagesDeleted++
}

type StatisticData struct {
	ProcessID           int            `json:"pid"`
	Hostname            string         `json:"hostname"`
	UpTime              string         `json:"uptime"`
	UpTimeSec           float64        `json:"uptime_sec"`
	StatusCodeCount     map[string]int `json:"status_code_count"`
	ResponseCount       int            `json:"count"`
	TotalResponseTime   string         `json:"total_response_time"`
	TotalResponseSize   int64          `json:"total_response_size"`
	AverageResponseTime string         `json:"average_response_time"`
	ImagesIngested      int            `json:"images_ingested"`
	ImagesDeleted       int            `json:"images_deleted"`
}

func (stat *Statistic) GatherData() *StatisticData {
	stat.mutex.RLock()
	defer stat.mutex.RUnlock()

	counts := make(map[string]int, len(stat.ResponseCounts))
	total := 0
	for code, n := range stat.ResponseCounts {
		counts[code] = n
		total += n
	}

	var avg time.Duration
	if total > 0 {
		avg = stat.TotalRespTime / time.Duration(total)
	}

	uptime := time.Since(stat.StartTime)
	return &StatisticData{
		ProcessID:           stat.ProcessID,
		Hostname:            stat.Hostname,
		UpTime:              uptime.String(),
		UpTimeSec:           uptime.Seconds(),
		StatusCodeCount:     counts,
		ResponseCount:       total,
		TotalResponseTime:   stat.TotalRespTime.String(),
		TotalResponseSize:   stat.TotalRespSize,
		AverageResponseTime: avg.String(),
		ImagesIngested:      stat.ImagesIngested,
		ImagesDeleted:       stat.ImagesDeleted,
	}
}
