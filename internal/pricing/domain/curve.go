package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultForwardPrice 曲线完全不可用时的兜底价格
const DefaultForwardPrice = 10.0

// ForwardCurve 远期曲线：月份代码（"M01".."M12"…）到远期价格的映射
type ForwardCurve map[string]float64

// MonthCode 生成零填充的月份代码，如 MonthCode(3) == "M03"
func MonthCode(month int) string {
	return fmt.Sprintf("M%02d", month)
}

// monthIndex 解析月份代码中的数字，非法代码返回 0
func monthIndex(code string) int {
	if !strings.HasPrefix(code, "M") {
		return 0
	}
	n, err := strconv.Atoi(code[1:])
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// ForwardPrice 查询指定月份代码的远期价格。
// 精确命中且值有效（非零、非 NaN）时直接返回；否则取数值距离最近的
// 有效月份，等距时取较小的月份索引；曲线整体无效时返回兜底价格。
// 真实远期曲线往往只报部分合约月，最近邻回退覆盖这一常态。
func (fc ForwardCurve) ForwardPrice(monthCode string) float64 {
	if len(fc) == 0 {
		return DefaultForwardPrice
	}

	if price, ok := fc[monthCode]; ok && validPrice(price) {
		return price
	}

	target := monthIndex(monthCode)

	// 收集有效月份并按索引升序排列，保证等距时先遇到较小月份
	valid := make([]int, 0, len(fc))
	byIndex := make(map[int]float64, len(fc))
	for code, price := range fc {
		idx := monthIndex(code)
		if idx == 0 || !validPrice(price) {
			continue
		}
		valid = append(valid, idx)
		byIndex[idx] = price
	}
	if len(valid) == 0 {
		return DefaultForwardPrice
	}
	sort.Ints(valid)

	closest := valid[0]
	minDiff := abs(closest - target)
	for _, idx := range valid[1:] {
		if diff := abs(idx - target); diff < minDiff {
			minDiff = diff
			closest = idx
		}
	}
	return byIndex[closest]
}

func validPrice(p float64) bool {
	return p != 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
