package crosscheck

import (
	"testing"
	"time"

	"github.com/iabetor/ziwei-verify/internal/chart"
)

func TestPillars_19891017Noon(t *testing.T) {
	got := Pillars(time.Date(1989, 10, 17, 12, 0, 0, 0, time.UTC))
	want := []string{"己巳", "甲戌", "庚戌", "壬午"}

	if !equalPillars(got, want) {
		t.Errorf("Pillars() = %v, want %v", got, want)
	}
}

func TestLunarDate(t *testing.T) {
	got := LunarDate(time.Date(1989, 10, 17, 12, 0, 0, 0, time.UTC))
	if got != "一九八九年九月十八" {
		t.Errorf("LunarDate() = %q", got)
	}
}

func TestSplitPillars(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"己巳 甲戌 庚戌 壬午", []string{"己巳", "甲戌", "庚戌", "壬午"}},
		{"己巳年 甲戌月 庚戌日 壬午时", []string{"己巳", "甲戌", "庚戌", "壬午"}},
		{"己巳　甲戌　庚戌　壬午", []string{"己巳", "甲戌", "庚戌", "壬午"}},
		{"  己巳 甲戌  ", []string{"己巳", "甲戌"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitPillars(tt.in)
		if !equalPillars(got, tt.want) {
			t.Errorf("splitPillars(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	q := chart.Query{Date: "1989-10-17", Hour: 12, Gender: chart.Male, IsLunar: true, Locale: "zh-CN"}

	t.Run("match", func(t *testing.T) {
		r := &chart.Result{LunarDate: "一九八九年九月十八", ChineseDate: "己巳 甲戌 庚戌 壬午"}
		rep := Check(q, r)
		if !rep.OK() {
			t.Errorf("expected match, got %+v", rep)
		}
		if rep.FourPillars.Expected != "己巳 甲戌 庚戌 壬午" {
			t.Errorf("Expected = %q", rep.FourPillars.Expected)
		}
	})

	t.Run("wrong hour pillar", func(t *testing.T) {
		r := &chart.Result{LunarDate: "一九八九年九月十八", ChineseDate: "己巳 甲戌 庚戌 甲子"}
		rep := Check(q, r)
		if rep.FourPillars.Match {
			t.Error("time pillar mismatch should be reported")
		}
		if !rep.LunarDate.Match {
			t.Error("lunar date should still match")
		}
		if rep.OK() {
			t.Error("OK() should be false")
		}
	})

	t.Run("missing pillars", func(t *testing.T) {
		rep := Check(q, &chart.Result{})
		if rep.FourPillars.Match || rep.LunarDate.Match {
			t.Errorf("empty result should not match: %+v", rep)
		}
	})
}
