package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/femxlate/families"
	"github.com/notargets/femxlate/mesh"
	"github.com/notargets/femxlate/utils"
)

// DefaultLineWidth is the record width of group member lists
const DefaultLineWidth = 80

// UnassignedPartName names the part of cells outside every cell family
const UnassignedPartName = "UNASSIGNED"

// ASCWriter writes a mesh and its families in the fixed column ASC format:
// nodes, elements grouped by type, then one group record per family.
// Node families are written with "No methods", cell families as "PART_ID k".
type ASCWriter struct {
	Title     string
	LineWidth int
	log       *utils.Logger
}

func NewASCWriter(title string, logger *utils.Logger) *ASCWriter {
	if logger == nil {
		logger = utils.NewDiscardLogger()
	}
	return &ASCWriter{Title: title, LineWidth: DefaultLineWidth, log: logger}
}

// WriteFile writes the ASC deck to path. Nothing is left at path on error.
func (w *ASCWriter) WriteFile(path string, m *mesh.Mesh, nodeFamilies, cellFamilies *families.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = w.Write(file, m, nodeFamilies, cellFamilies); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// Write writes the deck to out. Nodes that were referenced but never defined
// are left out together with the cells that use them.
func (w *ASCWriter) Write(out io.Writer, m *mesh.Mesh, nodeFamilies, cellFamilies *families.Result) error {
	bw := bufio.NewWriter(out)
	skipped := w.skippedCells(m)

	fmt.Fprintf(bw, "BEGIN_HEADER\n%s\nEND_HEADER\n", w.Title)
	numNodes, err := w.writeNodes(bw, m)
	if err != nil {
		return err
	}
	numCells := w.writeElements(bw, m, skipped)
	numRecords := w.writeGroups(bw, m, skipped, nodeFamilies, cellFamilies)
	fmt.Fprintf(bw, "END_ASC\n")

	if err = bw.Flush(); err != nil {
		return err
	}
	w.log.Infof("asc: %d nodes, %d elements, %d group records", numNodes, numCells, numRecords)
	return nil
}

// skippedCells returns the positions of cells using an undefined node
func (w *ASCWriter) skippedCells(m *mesh.Mesh) map[int]bool {
	skipped := make(map[int]bool)
	if len(m.Nodes.Undefined()) == 0 {
		return skipped
	}
	for pos := 0; pos < m.Cells.Len(); pos++ {
		cell, _ := m.Cells.At(pos)
		for _, npos := range cell.NodePositions {
			if n, _ := m.Nodes.At(npos); !n.Defined() {
				w.log.Warnf("asc: skipping cell %d, node %d is not defined", cell.ID, n.ID)
				skipped[pos] = true
				break
			}
		}
	}
	return skipped
}

func (w *ASCWriter) writeNodes(bw *bufio.Writer, m *mesh.Mesh) (int, error) {
	undefined := m.Nodes.Undefined()
	for _, id := range undefined {
		w.log.Warnf("asc: skipping node %d, referenced but never defined", id)
	}
	numNodes := m.Nodes.Len() - len(undefined)
	fmt.Fprintf(bw, "BEGIN_NODES %d 3\n", numNodes)
	for pos := 0; pos < m.Nodes.Len(); pos++ {
		n, _ := m.Nodes.At(pos)
		if !n.Defined() {
			continue
		}
		if !n.GlobalResolved() {
			return 0, fmt.Errorf("node %d: global coordinates not resolved", n.ID)
		}
		fmt.Fprintf(bw, "%8d%16.8E%16.8E%16.8E\n", n.ID, n.Global[0], n.Global[1], n.Global[2])
	}
	fmt.Fprintf(bw, "END_NODES\n")
	return numNodes, nil
}

func (w *ASCWriter) writeElements(bw *bufio.Writer, m *mesh.Mesh, skipped map[int]bool) int {
	numCells := m.Cells.Len() - len(skipped)
	fmt.Fprintf(bw, "BEGIN_ELEMENTS %d\n", numCells)
	for _, code := range m.Cells.Types() {
		for _, pos := range m.Cells.PositionsByType(code) {
			if skipped[pos] {
				continue
			}
			cell, _ := m.Cells.At(pos)
			fmt.Fprintf(bw, "%8d%6d%4d", cell.ID, int(code), len(cell.NodeIDs))
			for _, id := range cell.NodeIDs {
				fmt.Fprintf(bw, "%8d", id)
			}
			bw.WriteByte('\n')
		}
	}
	fmt.Fprintf(bw, "END_ELEMENTS\n")
	return numCells
}

// writeGroups writes cell family parts then node families. Record ids are
// sequential from 1.
func (w *ASCWriter) writeGroups(bw *bufio.Writer, m *mesh.Mesh, skipped map[int]bool,
	nodeFamilies, cellFamilies *families.Result) int {
	var records []string
	part := 0
	if cellFamilies != nil {
		members := cellFamilies.MembersByFamily()
		for _, fam := range cellFamilies.Families {
			part++
			records = append(records, w.groupRecord(len(records)+1, fam.Name, 2,
				"PART_ID "+strconv.Itoa(part), familyComment(fam), cellIDs(m, skipped, members[fam.ID])))
		}
		if unassigned := cellIDs(m, skipped, cellFamilies.Members(families.NoFamily)); len(unassigned) > 0 {
			part++
			records = append(records, w.groupRecord(len(records)+1, UnassignedPartName, 2,
				"PART_ID "+strconv.Itoa(part), "cells outside every group", unassigned))
		}
	}
	if nodeFamilies != nil {
		members := nodeFamilies.MembersByFamily()
		for _, fam := range nodeFamilies.Families {
			records = append(records, w.groupRecord(len(records)+1, fam.Name, 1,
				"No methods", familyComment(fam), nodeIDs(m, members[fam.ID])))
		}
	}
	fmt.Fprintf(bw, "BEGIN_GROUPS %d\n", len(records))
	for _, r := range records {
		bw.WriteString(r)
	}
	fmt.Fprintf(bw, "END_GROUPS\n")
	return len(records)
}

// groupRecord formats: id NAME kind 0 "Subcommand" "" "Comment" id1 id2 ...
// Member ids are wrapped at the line width. NAME is a single field, so
// whitespace inside a name is replaced by underscores.
func (w *ASCWriter) groupRecord(id int, name string, kind int, subcommand, comment string, members []int) string {
	var sb strings.Builder
	line := fmt.Sprintf("%d %s %d 0 %q \"\" %q", id, recordName(name), kind, subcommand, comment)
	for _, member := range members {
		field := " " + strconv.Itoa(member)
		if len(line)+len(field) > w.LineWidth {
			sb.WriteString(line)
			sb.WriteByte('\n')
			line = "       "
		}
		line += field
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	return sb.String()
}

func familyComment(fam *families.Family) string {
	return "Groups: " + strings.Join(fam.GroupNames(), ",")
}

func recordName(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

func cellIDs(m *mesh.Mesh, skipped map[int]bool, positions []int) []int {
	ids := make([]int, 0, len(positions))
	for _, pos := range positions {
		if skipped[pos] {
			continue
		}
		id, _ := m.Cells.FindID(pos)
		ids = append(ids, id)
	}
	return ids
}

func nodeIDs(m *mesh.Mesh, positions []int) []int {
	ids := make([]int, 0, len(positions))
	for _, pos := range positions {
		if n, _ := m.Nodes.At(pos); n.Defined() {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
