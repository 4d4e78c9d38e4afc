package matching

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"jobmatch-backend/internal/jobs"
)

// Parse reconciles a model reply against the jobs that were sent. It never
// fails: anything unusable yields an empty result.
func Parse(content string, snapshot []jobs.JobSummary) []Recommendation {
	return ParseWithLogger(content, snapshot, nil)
}

// ParseWithLogger is Parse with diagnostics for dropped replies and elements.
func ParseWithLogger(content string, snapshot []jobs.JobSummary, logger *zap.Logger) []Recommendation {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(content) == "" {
		logger.Info("matching reply empty")
		return []Recommendation{}
	}

	arr, ok := ExtractJSONArray(content)
	if !ok {
		logger.Warn("matching reply has no json array", zap.Int("reply_len", len(content)))
		return []Recommendation{}
	}

	dec := json.NewDecoder(strings.NewReader(arr))
	dec.UseNumber()
	var elements []any
	if err := dec.Decode(&elements); err != nil {
		logger.Warn("matching reply is not valid json", zap.Error(err))
		return []Recommendation{}
	}

	byID := make(map[int64]jobs.JobSummary, len(snapshot))
	for _, j := range snapshot {
		byID[j.ID] = j
	}

	out := make([]Recommendation, 0, len(elements))
	seen := make(map[int64]int, len(elements))
	dropped := 0
	for _, el := range elements {
		obj, ok := el.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		id, ok := parseJobID(obj["jobId"])
		if !ok {
			dropped++
			continue
		}
		job, ok := byID[id]
		if !ok {
			dropped++
			continue
		}
		rec := Recommendation{
			Job:        job.Clone(),
			MatchScore: parseScore(obj["matchScore"]),
			Reason:     parseReason(obj["reason"]),
		}
		if idx, dup := seen[id]; dup {
			if rec.MatchScore > out[idx].MatchScore {
				out[idx].MatchScore = rec.MatchScore
				out[idx].Reason = rec.Reason
			}
			continue
		}
		seen[id] = len(out)
		out = append(out, rec)
	}

	if dropped > 0 {
		logger.Info("matching reply elements dropped", zap.Int("dropped", dropped), zap.Int("kept", len(out)))
	}
	return out
}

func parseJobID(v any) (int64, bool) {
	switch id := v.(type) {
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return n, true
		}
		f, err := id.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func parseScore(v any) int {
	if v == nil {
		return 0
	}
	var f float64
	if err := mapstructure.WeakDecode(v, &f); err != nil || math.IsNaN(f) {
		return 0
	}
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	default:
		return int(math.Round(f))
	}
}

func parseReason(v any) string {
	if v == nil {
		return ""
	}
	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
