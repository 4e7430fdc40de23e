package mesh

// FacesFromTwoNodes returns the node ids of the cell face identified by two of
// its nodes:
//   - 2D cells: the whole cell boundary, in connectivity order
//   - TETRA4: the face opposite nodeIDB
//   - HEXA8: the first face, in catalog order, holding both nodes
//
// Other 3D types have no rule and yield an UnsupportedTopologyError.
func FacesFromTwoNodes(cell *Cell, nodeIDA, nodeIDB int) ([]int, error) {
	localA, err := cell.LocalIndex(nodeIDA)
	if err != nil {
		return nil, err
	}
	localB, err := cell.LocalIndex(nodeIDB)
	if err != nil {
		return nil, err
	}

	if cell.Type.Dimension == Dimension2D {
		return append([]int(nil), cell.NodeIDs...), nil
	}

	var face []int
	switch cell.Type.Code {
	case TETRA4:
		for _, f := range cell.Type.Faces {
			if !containsLocal(f, localB) {
				face = f
				break
			}
		}
	case HEXA8:
		for _, f := range cell.Type.Faces {
			if containsLocal(f, localA) && containsLocal(f, localB) {
				face = f
				break
			}
		}
	default:
		return nil, &UnsupportedTopologyError{CellID: cell.ID, Type: cell.Type.Name}
	}
	if face == nil {
		return nil, &NoMatchingFaceError{CellID: cell.ID, NodeIDA: nodeIDA, NodeIDB: nodeIDB}
	}
	return faceNodeIDs(cell, face), nil
}

// faceNodeIDs maps 1-based local indices to the cell's node ids
func faceNodeIDs(cell *Cell, face []int) []int {
	ids := make([]int, len(face))
	for i, local := range face {
		ids[i] = cell.NodeIDs[local-1]
	}
	return ids
}

func containsLocal(face []int, local int) bool {
	for _, l := range face {
		if l == local {
			return true
		}
	}
	return false
}
