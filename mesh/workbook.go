package mesh

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
)

var workbookColumns = []string{
	"Name", "Passed", "Triangles", "Vertices", "Shells",
	"Boundary edges", "Non-manifold edges", "Zero-area faces",
	"Volume mm3", "Area mm2", "X mm", "Y mm", "Z mm", "Failures",
}

// WriteWorkbook writes one row per report to an xlsx file at path.
func WriteWorkbook(path string, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for j, h := range workbookColumns {
		if err := setCell(f, sheet, j, 0, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(workbookColumns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	for i, r := range s.Reports {
		row := []any{
			r.Name, r.Passed(), r.Triangles, r.Vertices, r.Shells,
			r.BoundaryEdges, r.NonManifoldEdges, r.ZeroAreaFaces,
			round3(r.Volume), round3(r.Area),
			round3(r.Extents.X), round3(r.Extents.Y), round3(r.Extents.Z),
			strings.Join(r.Failures, "; "),
		}
		for j, v := range row {
			if err := setCell(f, sheet, j, i+1, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// setCell sets the value at zero based column j and row i.
func setCell(f *excelize.File, sheet string, j, i int, v any) error {
	ref, err := excelize.CoordinatesToCellName(j+1, i+1)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, ref, v)
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
