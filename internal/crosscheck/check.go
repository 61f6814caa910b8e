// Package crosscheck 用 lunar-go 独立计算农历日期和四柱，与排盘引擎的结果对照。
package crosscheck

import (
	"strings"
	"time"

	"github.com/6tail/lunar-go/calendar"
	"golang.org/x/text/width"

	"github.com/iabetor/ziwei-verify/internal/chart"
)

// Field 是一项校验结果。
type Field struct {
	Expected string // lunar-go 计算值
	Actual   string // 引擎返回值
	Match    bool
}

// Report 是一次排盘的历法校验结果。
type Report struct {
	LunarDate   Field
	FourPillars Field
}

// OK 所有项均一致时返回 true。
func (r Report) OK() bool {
	return r.LunarDate.Match && r.FourPillars.Match
}

// Pillars 返回阳历日期和钟点对应的四柱，如 ["己巳" "甲戌" "庚戌" "壬午"]。
// 年柱以立春、月柱以节令为界。
func Pillars(t time.Time) []string {
	lunar := calendar.NewSolar(t.Year(), int(t.Month()), t.Day(), t.Hour(), 0, 0).GetLunar()
	ec := lunar.GetEightChar()
	return []string{ec.GetYear(), ec.GetMonth(), ec.GetDay(), ec.GetTime()}
}

// LunarDate 返回农历日期的中文写法，如 "一九八九年九月十八"。
func LunarDate(t time.Time) string {
	return calendar.NewSolar(t.Year(), int(t.Month()), t.Day(), t.Hour(), 0, 0).GetLunar().String()
}

// Check 以 q 的阳历日期和小时计算农历与四柱，并与 r 对照。
// q 必须已通过 Validate。
func Check(q chart.Query, r *chart.Result) Report {
	day, _ := time.Parse(chart.DateLayout, q.Date)
	t := day.Add(time.Duration(q.Hour) * time.Hour)

	expectedLunar := LunarDate(t)
	expectedPillars := Pillars(t)
	actualPillars := splitPillars(r.ChineseDate)

	return Report{
		LunarDate: Field{
			Expected: expectedLunar,
			Actual:   r.LunarDate,
			Match:    normalize(expectedLunar) == normalize(r.LunarDate),
		},
		FourPillars: Field{
			Expected: strings.Join(expectedPillars, " "),
			Actual:   r.ChineseDate,
			Match:    equalPillars(expectedPillars, actualPillars),
		},
	}
}

// pillarMarkers 去掉 "己巳年 甲戌月" 这类写法中的单位字。
var pillarMarkers = strings.NewReplacer("年", " ", "月", " ", "日", " ", "时", " ", "時", " ")

// splitPillars 将引擎的四柱字符串拆成干支列表。
func splitPillars(s string) []string {
	return strings.Fields(pillarMarkers.Replace(normalize(s)))
}

// normalize 折叠全角字符（含全角空格）并去掉首尾空白。
func normalize(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

func equalPillars(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
