package slack

import (
	"fmt"

	"github.com/slack-go/slack"
)

func markdownField(label string, value any) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s:*\n%v", label, value), false, false)
}

// buildDetectionMessage builds the Block Kit message for a detection run
// summary, returning the blocks and the plain-text notification fallback
func buildDetectionMessage(summary *DetectionSummary) ([]slack.Block, string) {
	fallback := fmt.Sprintf("Duplicate detection finished: %d new candidate pair(s)", summary.PairsCreated)

	fields := []*slack.TextBlockObject{
		markdownField("Cases scanned", summary.CasesScanned),
		markdownField("Comparisons", summary.Comparisons),
		markdownField("New pairs", summary.PairsCreated),
		markdownField("Known pairs skipped", summary.SkippedKnown),
		markdownField("Failures", summary.Failed),
		markdownField("Threshold", fmt.Sprintf("%.2f", summary.Threshold)),
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Duplicate detection completed", false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("Run by *%s*", summary.DetectedBy), false, false), nil, nil),
		slack.NewSectionBlock(nil, fields, nil),
	}

	return blocks, fallback
}

// buildResolutionMessage builds the Block Kit message for a pair resolution
func buildResolutionMessage(notice *ResolutionNotice) ([]slack.Block, string) {
	fallback := fmt.Sprintf("Duplicate pair %s resolved as %s", notice.PairID, notice.Status)

	body := fmt.Sprintf("Pair `%s` (case %d / case %d) resolved as *%s* by *%s*",
		notice.PairID, notice.FirstCaseID, notice.SecondCaseID, notice.Status, notice.ResolvedBy)
	if notice.CaseDeleted {
		body += fmt.Sprintf("\nCase %d was removed as a duplicate record.", notice.SecondCaseID)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Duplicate pair resolved", false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, body, false, false), nil, nil),
	}

	return blocks, fallback
}
