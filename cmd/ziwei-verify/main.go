// Package main 是 ziwei-verify 的入口。
//
// ziwei-verify 对固定的出生日期逐小时调用 iztro 排盘，并把五行局、命身宫、
// 父母宫和十二宫主星打印出来供人工核对。
//
// Usage:
//
//	ziwei-verify
//	ziwei-verify --config configs/ziwei-verify.yaml --crosscheck
package main

func main() {
	Execute()
}
