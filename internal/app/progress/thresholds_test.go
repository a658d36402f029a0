package progress_test

import (
	"testing"

	"github.com/purpleschool/purpleschool/internal/app/progress"
	"github.com/purpleschool/purpleschool/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Threshold Table Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestThresholdTables_Ascending(t *testing.T) {
	for cat, table := range progress.AllThresholds() {
		for i := 1; i < len(table); i++ {
			if table[i].Trigger <= table[i-1].Trigger {
				t.Errorf("%s: triggers not strictly ascending at index %d", cat, i)
			}
		}
	}
}

func TestCheckThreshold_ExactMatchOnly(t *testing.T) {
	if th := progress.CheckThreshold(domain.CatQuestions, 1); th == nil || th.XPReward != 5 {
		t.Errorf("questions=1: expected first milestone with 5 XP, got %+v", th)
	}
	if th := progress.CheckThreshold(domain.CatQuestions, 2); th != nil {
		t.Errorf("questions=2: expected no milestone, got %+v", th)
	}
	if th := progress.CheckThreshold(domain.CatQuestions, 4); th != nil {
		t.Errorf("questions=4: expected no milestone, got %+v", th)
	}
	if th := progress.CheckThreshold(domain.CatStreak, 7); th == nil {
		t.Error("streak=7: expected a milestone")
	}
}

func TestCheckRange_MilestoneCompleteness(t *testing.T) {
	// A study tick that jumps 8 -> 12 minutes must not skip the 10-minute
	// milestone.
	hits := progress.CheckRange(domain.CatStudyTime, 8, 12)
	if len(hits) != 1 || hits[0].Trigger != 10 {
		t.Fatalf("8->12: expected only the 10-minute milestone, got %+v", hits)
	}

	// 0 -> 6 crosses both 1 and 5, ascending.
	hits = progress.CheckRange(domain.CatStudyTime, 0, 6)
	if len(hits) != 2 || hits[0].Trigger != 1 || hits[1].Trigger != 5 {
		t.Fatalf("0->6: expected milestones 1 then 5, got %+v", hits)
	}
}

func TestCheckRange_NoHits(t *testing.T) {
	if hits := progress.CheckRange(domain.CatStudyTime, 16, 29); hits != nil {
		t.Errorf("16->29: expected no milestones, got %+v", hits)
	}
}

func TestCheckRange_ExclusiveLowerInclusiveUpper(t *testing.T) {
	// The previous total was already checked; the new total has not been.
	if hits := progress.CheckRange(domain.CatStudyTime, 5, 5); hits != nil {
		t.Errorf("5->5: expected nothing, got %+v", hits)
	}
	hits := progress.CheckRange(domain.CatStudyTime, 4, 5)
	if len(hits) != 1 || hits[0].Trigger != 5 {
		t.Errorf("4->5: expected the 5-minute milestone, got %+v", hits)
	}
}
