package visibility

import "strings"

// priority threshold on competitor minus brand score
const highPriorityGap = 40

// Heatmap scores topics by position and presence in text:
// your score is 30+10i when present else 20, the competitor score is 70-5i
// when present else 80.
func Heatmap(text string, topics []string) []HeatmapRow {
	lower := strings.ToLower(text)
	rows := make([]HeatmapRow, 0, len(topics))
	for i, topic := range topics {
		your, competitor := 20, 80
		if key := normalize(topic); key != "" && strings.Contains(lower, key) {
			your = 30 + 10*i
			competitor = 70 - 5*i
		}
		gap := competitor - your
		priority := "medium"
		if gap > highPriorityGap {
			priority = "high"
		}
		rows = append(rows, HeatmapRow{
			PromptType:      topic,
			YourBrandScore:  your,
			CompetitorScore: competitor,
			Gap:             gap,
			Priority:        priority,
		})
	}
	return rows
}
