package service

import (
	"fmt"

	"pmdash/internal/models"
	"pmdash/internal/utils"
)

const BenchmarkFilename = "benchmark_data"

var benchmarkData = []models.BenchmarkRow{
	{Parameter: "產品特性", Company: "高", CompetitorA: "中", CompetitorB: "高", CompetitorC: "低"},
	{Parameter: "價格策略", Company: "中", CompetitorA: "高", CompetitorB: "低", CompetitorC: "中"},
	{Parameter: "市場份額", Company: "25%", CompetitorA: "30%", CompetitorB: "20%", CompetitorC: "15%"},
	{Parameter: "客戶滿意度", Company: "90%", CompetitorA: "85%", CompetitorB: "80%", CompetitorC: "70%"},
	{Parameter: "銷售量", Company: "1,000", CompetitorA: "1,200", CompetitorB: "800", CompetitorC: "600"},
	{Parameter: "分銷渠道", Company: "多", CompetitorA: "中", CompetitorB: "少", CompetitorC: "多"},
	{Parameter: "品牌影響力", Company: "高", CompetitorA: "高", CompetitorB: "中", CompetitorC: "低"},
}

type BenchmarkService interface {
	Rows() []models.BenchmarkRow
	ExportCSV() ([]byte, error)
	ExportExcel() ([]byte, error)
}

type benchmarkService struct {
	rows []models.BenchmarkRow
}

func NewBenchmarkService() BenchmarkService {
	return &benchmarkService{rows: benchmarkData}
}

func (s *benchmarkService) Rows() []models.BenchmarkRow {
	out := make([]models.BenchmarkRow, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *benchmarkService) cells() [][]string {
	cells := make([][]string, 0, len(s.rows))
	for _, r := range s.rows {
		cells = append(cells, r.Cells())
	}
	return cells
}

// ExportCSV prefixes a UTF-8 BOM so spreadsheet apps detect the encoding.
func (s *benchmarkService) ExportCSV() ([]byte, error) {
	data, err := utils.CreateCSV(models.BenchmarkColumns, s.cells())
	if err != nil {
		return nil, fmt.Errorf("export benchmark csv: %w", err)
	}
	return append([]byte("\xef\xbb\xbf"), data...), nil
}

func (s *benchmarkService) ExportExcel() ([]byte, error) {
	data, err := utils.CreateExcelFile(
		[]utils.Sheet{{Name: "Benchmark", Headers: models.BenchmarkColumns, Rows: s.cells()}},
		[][2]string{{"Total Records", fmt.Sprint(len(s.rows))}},
	)
	if err != nil {
		return nil, fmt.Errorf("export benchmark xlsx: %w", err)
	}
	return data, nil
}
