package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/iabetor/ziwei-verify/internal/chart"
	"github.com/iabetor/ziwei-verify/internal/crosscheck"
	"github.com/iabetor/ziwei-verify/internal/logger"
)

const (
	starSep         = "、"
	noStars         = "无"
	noParentsStars  = "无主星"
	separatorLength = 80
)

var separator = strings.Repeat("=", separatorLength)

var (
	// ErrNoHours 表示没有给出任何小时。
	ErrNoHours = errors.New("至少需要一个小时")
	// ErrNilResult 表示引擎既没有返回结果也没有返回错误。
	ErrNilResult = errors.New("引擎返回了空结果")
)

// Options 是除小时外固定不变的排盘参数。
type Options struct {
	Date       string
	Gender     chart.Gender
	IsLunar    bool
	Locale     string
	CrossCheck bool // 追加 lunar-go 历法校验
}

// Generator 逐小时排盘并输出文本报告。
type Generator struct {
	engine chart.Engine
	out    io.Writer
	opts   Options
}

// NewGenerator 创建报告生成器，报告写入 out。
func NewGenerator(engine chart.Engine, out io.Writer, opts Options) *Generator {
	return &Generator{engine: engine, out: out, opts: opts}
}

// Query 构造指定小时的排盘参数。
func (g *Generator) Query(hour int) chart.Query {
	return chart.Query{
		Date:    g.opts.Date,
		Hour:    hour,
		Gender:  g.opts.Gender,
		IsLunar: g.opts.IsLunar,
		Locale:  g.opts.Locale,
	}
}

// Run 按顺序对每个小时排盘并写出报告。
// 任何一次排盘失败都会立即返回 *chart.EngineError，已写出的内容保留，后续小时不再处理。
func (g *Generator) Run(ctx context.Context, hours []int) error {
	if len(hours) == 0 {
		return ErrNoHours
	}

	runID := uuid.NewString()
	logger.Infof("[report] run=%s 开始: date=%s hours=%v", runID, g.opts.Date, hours)

	banner := fmt.Sprintf("%s\n原始 iztro (JavaScript) 排盘验证\n日期: %s %s时\n%s\n",
		separator, g.opts.Date, chart.ShiChen(chart.TimeIndex(hours[0])), separator)
	if _, err := io.WriteString(g.out, banner); err != nil {
		return fmt.Errorf("写出报告失败: %w", err)
	}

	for _, hour := range hours {
		if err := g.runHour(ctx, hour); err != nil {
			logger.Errorf("[report] run=%s hour=%d 失败: %v", runID, hour, err)
			return err
		}
	}

	logger.Infof("[report] run=%s 完成, 共 %d 个小时", runID, len(hours))
	return nil
}

func (g *Generator) runHour(ctx context.Context, hour int) error {
	header := fmt.Sprintf("\n%s\n使用 hour=%d\n%s\n", separator, hour, separator)
	if _, err := io.WriteString(g.out, header); err != nil {
		return fmt.Errorf("写出报告失败: %w", err)
	}

	q := g.Query(hour)
	if err := q.Validate(); err != nil {
		return &chart.EngineError{Query: q, Err: err}
	}

	logger.Debugf("[report] hour=%d 时辰索引=%d (%s时)", hour, chart.TimeIndex(hour), chart.ShiChen(chart.TimeIndex(hour)))

	result, err := g.engine.ComputeChart(ctx, q)
	if err != nil {
		return &chart.EngineError{Query: q, Err: err}
	}
	if result == nil {
		return &chart.EngineError{Query: q, Err: ErrNilResult}
	}

	var b strings.Builder
	writeChart(&b, result)
	if g.opts.CrossCheck {
		rep := crosscheck.Check(q, result)
		if !rep.OK() {
			logger.Warnf("[report] hour=%d 历法校验不一致: 农历 %s/%s, 四柱 %s/%s", hour,
				rep.LunarDate.Expected, rep.LunarDate.Actual, rep.FourPillars.Expected, rep.FourPillars.Actual)
		}
		writeCrossCheck(&b, rep)
	}

	if _, err := io.WriteString(g.out, b.String()); err != nil {
		return fmt.Errorf("写出报告失败: %w", err)
	}
	return nil
}

// writeChart 渲染一次排盘的基本信息、父母宫和全部宫位。
func writeChart(b *strings.Builder, r *chart.Result) {
	b.WriteString("\n基本信息:\n")
	fmt.Fprintf(b, "  五行局: %s\n", r.FiveElementsClass)
	fmt.Fprintf(b, "  命宫地支: %s\n", r.SoulPalaceBranch)
	fmt.Fprintf(b, "  身宫地支: %s\n", r.BodyPalaceBranch)
	fmt.Fprintf(b, "  农历: %s\n", r.LunarDate)
	fmt.Fprintf(b, "  四柱: %s\n", r.ChineseDate)

	// 引擎应总是给出父母宫，缺失时只跳过这一段。
	if parents, ok := r.FindPalace(chart.ParentsPalace); ok {
		b.WriteString("\n父母宫:\n")
		fmt.Fprintf(b, "  地支: %s\n", parents.EarthlyBranch)
		fmt.Fprintf(b, "  天干: %s\n", parents.HeavenlyStem)
		fmt.Fprintf(b, "  主星: %s\n", joinStars(parents, noParentsStars))
	} else {
		logger.Warnf("[report] 排盘结果中没有%s宫", chart.ParentsPalace)
	}

	b.WriteString("\n所有宫位主星:\n")
	for _, p := range r.Palaces {
		fmt.Fprintf(b, "  %s(%s): %s\n", p.Name, p.EarthlyBranch, joinStars(p, noStars))
	}
}

func writeCrossCheck(b *strings.Builder, rep crosscheck.Report) {
	b.WriteString("\n历法校验:\n")
	fmt.Fprintf(b, "  农历: %s (引擎: %s) %s\n", rep.LunarDate.Expected, rep.LunarDate.Actual, mark(rep.LunarDate.Match))
	fmt.Fprintf(b, "  四柱: %s (引擎: %s) %s\n", rep.FourPillars.Expected, rep.FourPillars.Actual, mark(rep.FourPillars.Match))
}

func joinStars(p chart.Palace, placeholder string) string {
	names := p.StarNames()
	if len(names) == 0 {
		return placeholder
	}
	return strings.Join(names, starSep)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
