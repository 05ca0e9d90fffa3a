package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
)

// CSVProvider 以本地 CSV 文件为数据源的行情提供者。
// 历史价格文件 <TICKER>.csv 两列：date,price；
// 远期曲线文件 <TICKER>_curve.csv 两列：month_code,price。
type CSVProvider struct {
	dataFolder string
}

// NewCSVProvider 创建 CSV 数据源
func NewCSVProvider(dataFolder string) *CSVProvider {
	return &CSVProvider{dataFolder: dataFolder}
}

// FetchSeries 读取历史价格并按区间过滤，返回日期升序的序列
func (p *CSVProvider) FetchSeries(ctx context.Context, ticker string, start, end time.Time) (domain.Series, error) {
	rows, err := p.readCSV(seriesFileName(ticker))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSeriesNotFound, ticker, err)
	}

	series := make(domain.Series, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		series = append(series, domain.PricePoint{Date: date, Price: price})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrSeriesNotFound, ticker, p.dataFolder)
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// FetchForwardCurve 读取远期曲线文件，只保留 numMonths 个合约月内的报价
func (p *CSVProvider) FetchForwardCurve(ctx context.Context, ticker string, numMonths int, curveDate time.Time) (domain.ForwardCurve, error) {
	if numMonths <= 0 {
		numMonths = 12
	}

	rows, err := p.readCSV(curveFileName(ticker))
	if err != nil {
		return nil, fmt.Errorf("forward curve for %s: %w", ticker, err)
	}

	curve := make(domain.ForwardCurve, numMonths)
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(row[0]))
		price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		for i := 1; i <= numMonths; i++ {
			if code == domain.MonthCode(i) {
				curve[code] = price
				break
			}
		}
	}
	if len(curve) == 0 {
		return nil, fmt.Errorf("forward curve for %s: no usable rows", ticker)
	}
	return curve, nil
}

// FetchMarketData 取不晚于 asOf 的最新收盘价
func (p *CSVProvider) FetchMarketData(ctx context.Context, ticker string, asOf time.Time) (domain.IndexData, error) {
	series, err := p.FetchSeries(ctx, ticker, time.Time{}, asOf)
	if err != nil {
		return domain.IndexData{}, err
	}

	last := series[len(series)-1]
	return domain.IndexData{Price: last.Price, LastUpdated: last.Date}, nil
}

// readCSV 读取文件并跳过表头（首列无法解析为日期或月份代码的行）
func (p *CSVProvider) readCSV(name string) ([][]string, error) {
	path := filepath.Join(p.dataFolder, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	if _, err := time.Parse(time.DateOnly, first); err == nil {
		return false
	}
	if strings.HasPrefix(strings.ToUpper(first), "M") {
		if _, err := strconv.Atoi(first[1:]); err == nil {
			return false
		}
	}
	return true
}

func seriesFileName(ticker string) string {
	return sanitizeTicker(ticker) + ".csv"
}

func curveFileName(ticker string) string {
	return sanitizeTicker(ticker) + "_curve.csv"
}

// sanitizeTicker 去掉交易所后缀与月份合约尾缀，得到文件名用的基础代码
func sanitizeTicker(ticker string) string {
	base := strings.TrimSpace(strings.TrimSuffix(ticker, " Comdty"))
	if idx := strings.Index(base, "_M"); idx > 0 {
		base = base[:idx]
	}
	return base
}
