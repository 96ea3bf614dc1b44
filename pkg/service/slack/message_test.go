package slack_test

import (
	"strings"
	"testing"

	slackapi "github.com/slack-go/slack"

	"github.com/DaoSolary/Desaparecidos/pkg/service/slack"
)

func TestBuildDetectionMessage(t *testing.T) {
	summary := &slack.DetectionSummary{
		DetectedBy:   "moderator-1",
		Threshold:    0.7,
		CasesScanned: 12,
		Comparisons:  66,
		PairsCreated: 3,
		SkippedKnown: 2,
		Failed:       1,
	}

	blocks, fallback := slack.BuildDetectionMessage(summary)

	if !strings.Contains(fallback, "3 new candidate pair(s)") {
		t.Errorf("fallback text missing pair count: %q", fallback)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].BlockType() != slackapi.MBTHeader {
		t.Errorf("first block should be a header, got %v", blocks[0].BlockType())
	}

	fieldsBlock, ok := blocks[2].(*slackapi.SectionBlock)
	if !ok {
		t.Fatalf("third block should be a section, got %T", blocks[2])
	}
	if len(fieldsBlock.Fields) != 6 {
		t.Errorf("expected 6 summary fields, got %d", len(fieldsBlock.Fields))
	}
}

func TestBuildResolutionMessage(t *testing.T) {
	tests := []struct {
		name        string
		notice      *slack.ResolutionNotice
		wantInBody  string
		wantDeleted bool
	}{
		{
			name: "confirmed without deletion",
			notice: &slack.ResolutionNotice{
				PairID:       "pair-1",
				FirstCaseID:  10,
				SecondCaseID: 20,
				Status:       "CONFIRMED",
				ResolvedBy:   "moderator-1",
			},
			wantInBody: "resolved as *CONFIRMED*",
		},
		{
			name: "confirmed with deletion",
			notice: &slack.ResolutionNotice{
				PairID:       "pair-2",
				FirstCaseID:  10,
				SecondCaseID: 20,
				Status:       "CONFIRMED",
				ResolvedBy:   "moderator-1",
				CaseDeleted:  true,
			},
			wantInBody:  "Case 20 was removed",
			wantDeleted: true,
		},
		{
			name: "rejected",
			notice: &slack.ResolutionNotice{
				PairID:       "pair-3",
				FirstCaseID:  11,
				SecondCaseID: 21,
				Status:       "REJECTED",
				ResolvedBy:   "moderator-2",
			},
			wantInBody: "resolved as *REJECTED*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, fallback := slack.BuildResolutionMessage(tt.notice)

			if !strings.Contains(fallback, tt.notice.Status) {
				t.Errorf("fallback text missing status: %q", fallback)
			}
			if len(blocks) != 2 {
				t.Fatalf("expected 2 blocks, got %d", len(blocks))
			}

			section, ok := blocks[1].(*slackapi.SectionBlock)
			if !ok {
				t.Fatalf("second block should be a section, got %T", blocks[1])
			}
			body := section.Text.Text
			if !strings.Contains(body, tt.wantInBody) {
				t.Errorf("body missing %q: %q", tt.wantInBody, body)
			}
			if !tt.wantDeleted && strings.Contains(body, "removed as a duplicate") {
				t.Errorf("body should not mention deletion: %q", body)
			}
		})
	}
}
