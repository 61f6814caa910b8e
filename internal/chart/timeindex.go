package chart

// shiChenNames 时辰名称，下标即时辰索引，12 为晚子时。
var shiChenNames = [13]string{
	"早子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥", "晚子",
}

// TimeIndex 将 0-23 的小时数换算为时辰索引 (0-12)。
//
//	0      -> 0  早子时 00:00~01:00
//	1, 2   -> 1  丑时
//	...
//	11, 12 -> 6  午时
//	23     -> 12 晚子时
func TimeIndex(hour int) int {
	switch {
	case hour <= 0:
		return 0
	case hour >= 23:
		return 12
	default:
		return (hour + 1) / 2
	}
}

// ShiChen 返回时辰索引对应的名称，越界返回空串。
func ShiChen(index int) string {
	if index < 0 || index >= len(shiChenNames) {
		return ""
	}
	return shiChenNames[index]
}
