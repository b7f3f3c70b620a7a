// Package report renders a run's map as a printable one-page PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 48
	nodeR     = 13.0
	titleSize = 18
	fontSize  = 8
	labelSize = 6
)

var ErrEmptyMap = errors.New("map has no nodes")

type rgb struct{ r, g, b int }

var nodeColors = map[types.NodeType]rgb{
	types.NodeEnemy: {120, 150, 200},
	types.NodeElite: {220, 140, 60},
	types.NodeRest:  {110, 180, 120},
	types.NodeBoss:  {190, 50, 60},
}

// MapPDF returns PDF bytes for the map: floors bottom to top, edges between
// floors, one marker per node with its type letter, visited nodes filled,
// and a ring around the current node. defs may be nil; enemy ids are then
// printed instead of names.
func MapPDF(m types.GameMap, defs *state.Defs, title string) ([]byte, error) {
	if len(m.Nodes) == 0 {
		return nil, ErrEmptyMap
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Dark background, light ink.
	pdf.SetFillColor(24, 26, 38)
	pdf.Rect(0, 0, pageW, pageH, "F")
	pdf.SetTextColor(230, 230, 240)

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, margin-20)
	pdf.CellFormat(pageW-2*margin, 20, "ChainSpire", "", 0, "L", false, 0, "")
	if title != "" {
		pdf.SetFont("Helvetica", "", fontSize+2)
		pdf.SetXY(margin, margin)
		pdf.CellFormat(pageW-2*margin, 12, title, "", 0, "L", false, 0, "")
	}

	top := float64(margin) + 50
	bottom := float64(pageH - margin - 60)
	left := float64(margin)
	width := float64(pageW - 2*margin)
	pos := func(n types.MapNode) (float64, float64) {
		return left + n.X*width, bottom - n.Y*(bottom-top)
	}

	drawFloorLabels(pdf, m, pos)
	drawEdges(pdf, m, pos)

	for _, id := range sortedIDs(m) {
		n := m.Nodes[id]
		x, y := pos(n)
		drawNode(pdf, n, x, y, id == m.StartNodeID, id == m.CurrentNodeID)
		if label := nodeLabel(n, defs); label != "" {
			pdf.SetFont("Helvetica", "", labelSize)
			pdf.SetTextColor(200, 200, 215)
			pdf.SetXY(x-40, y+nodeR+2)
			pdf.CellFormat(80, 8, label, "", 0, "C", false, 0, "")
		}
	}

	drawLegend(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering map pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawFloorLabels(pdf *gofpdf.Fpdf, m types.GameMap, pos func(types.MapNode) (float64, float64)) {
	pdf.SetFont("Helvetica", "", labelSize)
	pdf.SetTextColor(120, 120, 140)
	for floor, ids := range m.Floors {
		if len(ids) == 0 {
			continue
		}
		_, y := pos(m.Nodes[ids[0]])
		pdf.SetXY(6, y-4)
		pdf.CellFormat(margin-10, 8, fmt.Sprintf("F%d", floor+1), "", 0, "R", false, 0, "")
	}
}

// drawEdges draws every connection; edges along the path walked so far are
// dashed and highlighted.
func drawEdges(pdf *gofpdf.Fpdf, m types.GameMap, pos func(types.MapNode) (float64, float64)) {
	for _, id := range sortedIDs(m) {
		n := m.Nodes[id]
		x1, y1 := pos(n)
		for _, cid := range n.Children {
			child, ok := m.Nodes[cid]
			if !ok {
				continue
			}
			x2, y2 := pos(child)
			if n.Visited && child.Visited {
				pdf.SetDrawColor(240, 200, 80)
				pdf.SetLineWidth(2)
				pdf.SetDashPattern([]float64{6, 4}, 0)
			} else {
				pdf.SetDrawColor(90, 95, 120)
				pdf.SetLineWidth(0.8)
				pdf.SetDashPattern([]float64{}, 0)
			}
			pdf.Line(x1, y1, x2, y2)
		}
	}
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetLineWidth(1)
}

func drawNode(pdf *gofpdf.Fpdf, n types.MapNode, x, y float64, isStart, isCurrent bool) {
	c := nodeColors[n.Type]
	if isCurrent {
		pdf.SetDrawColor(255, 255, 255)
		pdf.SetLineWidth(2)
		pdf.Circle(x, y, nodeR+5, "D")
	}

	style := "D"
	if n.Visited {
		style = "FD"
	}
	pdf.SetFillColor(c.r, c.g, c.b)
	pdf.SetDrawColor(c.r, c.g, c.b)
	pdf.SetLineWidth(1.5)
	pdf.Circle(x, y, nodeR, style)

	letter := typeLetter(n.Type)
	if isStart {
		letter = "S"
	}
	pdf.SetFont("Helvetica", "B", fontSize+2)
	if n.Visited {
		pdf.SetTextColor(20, 20, 30)
	} else {
		pdf.SetTextColor(c.r, c.g, c.b)
	}
	pdf.SetXY(x-nodeR, y-6)
	pdf.CellFormat(2*nodeR, 12, letter, "", 0, "C", false, 0, "")

	if n.Completed {
		// Check mark beside the marker.
		pdf.SetDrawColor(120, 230, 120)
		pdf.SetLineWidth(1.5)
		pdf.Line(x+nodeR+1, y-nodeR+4, x+nodeR+4, y-nodeR+7)
		pdf.Line(x+nodeR+4, y-nodeR+7, x+nodeR+9, y-nodeR)
	}
	pdf.SetLineWidth(1)
}

func drawLegend(pdf *gofpdf.Fpdf) {
	entries := []struct {
		t     types.NodeType
		label string
	}{
		{types.NodeEnemy, "Enemy"},
		{types.NodeElite, "Elite"},
		{types.NodeRest, "Rest site"},
		{types.NodeBoss, "Boss"},
	}
	y := float64(pageH - margin - 20)
	x := float64(margin)
	pdf.SetFont("Helvetica", "", fontSize)
	for _, e := range entries {
		c := nodeColors[e.t]
		pdf.SetFillColor(c.r, c.g, c.b)
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.Circle(x+5, y+5, 5, "FD")
		pdf.SetTextColor(220, 220, 230)
		pdf.SetXY(x+14, y)
		pdf.CellFormat(70, 10, fmt.Sprintf("%s  %s", typeLetter(e.t), e.label), "", 0, "L", false, 0, "")
		x += 95
	}
	pdf.SetXY(x, y)
	pdf.CellFormat(140, 10, "filled = visited, ring = you", "", 0, "L", false, 0, "")
}

func typeLetter(t types.NodeType) string {
	switch t {
	case types.NodeElite:
		return "L"
	case types.NodeRest:
		return "R"
	case types.NodeBoss:
		return "B"
	default:
		return "E"
	}
}

func nodeLabel(n types.MapNode, defs *state.Defs) string {
	if n.EnemyID == "" {
		return ""
	}
	label := n.EnemyID
	if defs != nil {
		if en, ok := defs.Enemies[n.EnemyID]; ok {
			label = en.Name
		}
	}
	if len(label) > 18 {
		label = label[:15] + "..."
	}
	return label
}

func sortedIDs(m types.GameMap) []string {
	ids := make([]string, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
