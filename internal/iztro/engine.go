package iztro

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/iabetor/ziwei-verify/internal/chart"
	"github.com/iabetor/ziwei-verify/internal/logger"
)

//go:embed bridge.js
var bridgeScript string

// defaultTimeout 是单次排盘子进程的默认超时。
const defaultTimeout = 30 * time.Second

// Engine 通过 node 子进程调用 iztro JavaScript 库完成排盘。
// 排盘算法完全在 iztro 内部，这里只负责参数传递和结果解码。
type Engine struct {
	nodePath  string
	moduleDir string // 包含 node_modules/iztro 的目录，作为 NODE_PATH
	timeout   time.Duration
}

// NewEngine 创建 iztro 排盘引擎。
// nodePath 为空时使用 PATH 中的 node，timeout <= 0 时使用默认值。
func NewEngine(nodePath, moduleDir string, timeout time.Duration) *Engine {
	if nodePath == "" {
		nodePath = "node"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Engine{nodePath: nodePath, moduleDir: moduleDir, timeout: timeout}
}

// ComputeChart 实现 chart.Engine。
func (e *Engine) ComputeChart(ctx context.Context, q chart.Query) (*chart.Result, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("[iztro] 序列化参数失败: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logger.Debugf("[iztro] 排盘: date=%s hour=%d gender=%s", q.Date, q.Hour, q.Gender)

	cmd := exec.CommandContext(callCtx, e.nodePath, "-e", bridgeScript)
	cmd.Stdin = bytes.NewReader(payload)
	if e.moduleDir != "" {
		cmd.Env = append(os.Environ(), "NODE_PATH="+e.moduleDir)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		// 调用方的 ctx 先结束时原样返回，只有单次超时触发才报告超时。
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("[iztro] 排盘被中止: %w", err)
		}
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("[iztro] node 执行超时 (%s)", e.timeout)
		}
		return nil, fmt.Errorf("[iztro] node 执行失败: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	logger.Debugf("[iztro] node 返回 %d 字节, 耗时 %s", stdout.Len(), time.Since(start))

	return decodeResult(stdout.Bytes())
}

// decodeResult 解析 bridge.js 的输出。
func decodeResult(data []byte) (*chart.Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("[iztro] 未收到排盘结果")
	}

	var r chart.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("[iztro] 解析排盘结果失败: %w", err)
	}
	if len(r.Palaces) == 0 {
		return nil, chart.ErrNoPalaces
	}
	return &r, nil
}
