package chart

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Gender 命主性别。
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// DateLayout 是 Query.Date 使用的阳历日期格式。
const DateLayout = "2006-01-02"

// ParentsPalace 是父母宫在排盘结果中的名称。
const ParentsPalace = "父母"

var (
	// ErrInvalidQuery 表示排盘参数不合法，引擎不会被调用。
	ErrInvalidQuery = errors.New("排盘参数不合法")
	// ErrNoPalaces 表示引擎返回了空的宫位列表。
	ErrNoPalaces = errors.New("排盘结果没有宫位")
)

// Query 是一次排盘请求，每个小时新建一个，不可修改。
type Query struct {
	Date    string `json:"date"`
	Hour    int    `json:"hour"`
	Gender  Gender `json:"gender"`
	IsLunar bool   `json:"isLunar"`
	Locale  string `json:"locale"`
}

// Validate 检查日期格式、小时范围和性别。
func (q Query) Validate() error {
	if _, err := time.Parse(DateLayout, q.Date); err != nil {
		return fmt.Errorf("%w: 日期 %q 格式错误，请使用 YYYY-MM-DD", ErrInvalidQuery, q.Date)
	}
	if q.Hour < 0 || q.Hour > 23 {
		return fmt.Errorf("%w: hour=%d 超出 0-23", ErrInvalidQuery, q.Hour)
	}
	switch q.Gender {
	case Male, Female:
	default:
		return fmt.Errorf("%w: 未知性别 %q", ErrInvalidQuery, q.Gender)
	}
	return nil
}

// Star 星曜，这里只关心名称。
type Star struct {
	Name string `json:"name"`
}

// Palace 宫位。
type Palace struct {
	Name          string `json:"name"`
	EarthlyBranch string `json:"earthlyBranch"`
	HeavenlyStem  string `json:"heavenlyStem"`
	MajorStars    []Star `json:"majorStars"`
}

// StarNames 返回主星名称，保持引擎给出的顺序。
func (p Palace) StarNames() []string {
	names := make([]string, 0, len(p.MajorStars))
	for _, s := range p.MajorStars {
		names = append(names, s.Name)
	}
	return names
}

// Result 是引擎返回的排盘结果，生成报告时只读。
type Result struct {
	FiveElementsClass string   `json:"fiveElementsClass"`
	SoulPalaceBranch  string   `json:"earthlyBranchOfSoulPalace"`
	BodyPalaceBranch  string   `json:"earthlyBranchOfBodyPalace"`
	LunarDate         string   `json:"lunarDate"`
	ChineseDate       string   `json:"chineseDate"`
	Palaces           []Palace `json:"palaces"`
}

// FindPalace 按名称线性查找宫位。
// 找不到时返回 false，调用方应跳过该宫位而不是报错。
func (r *Result) FindPalace(name string) (Palace, bool) {
	for _, p := range r.Palaces {
		if p.Name == name {
			return p, true
		}
	}
	return Palace{}, false
}

// Engine 定义排盘引擎接口。
type Engine interface {
	// ComputeChart 按阳历日期、小时、性别等参数排盘。
	ComputeChart(ctx context.Context, q Query) (*Result, error)
}

// EngineError 表示一次排盘调用失败，整个报告随即终止。
type EngineError struct {
	Query Query
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("排盘失败 (date=%s hour=%d): %v", e.Query.Date, e.Query.Hour, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
