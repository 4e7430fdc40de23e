package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrSealed is returned by any mutation attempted after Mesh.Seal
	ErrSealed = errors.New("mesh is sealed, no further modification allowed")
	// ErrCatalogFrozen is returned by Catalog.Register after Catalog.Freeze
	ErrCatalogFrozen = errors.New("cell type catalog is frozen")
)

// EntityKind names the entity space an id or position belongs to
type EntityKind uint8

const (
	NodeEntity EntityKind = iota
	CellEntity
)

func (k EntityKind) String() string {
	return [...]string{"node", "cell"}[k]
}

// UnknownCellTypeError reports a catalog lookup on a code that was never registered
type UnknownCellTypeError struct {
	Code CellTypeCode
}

func (e *UnknownCellTypeError) Error() string {
	return fmt.Sprintf("unknown cell type code %d", e.Code)
}

// UnknownGroupError reports a group name that cannot be resolved
type UnknownGroupError struct {
	Kind GroupKind
	Name string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// UnknownEntityError reports an id or a position that is not in a store
type UnknownEntityError struct {
	Kind       EntityKind
	ID         int
	ByPosition bool
}

func (e *UnknownEntityError) Error() string {
	if e.ByPosition {
		return fmt.Sprintf("no %s at position %d", e.Kind, e.ID)
	}
	return fmt.Sprintf("%s id %d not found", e.Kind, e.ID)
}

// NodeNotInCellError reports a node id absent from a cell connectivity
type NodeNotInCellError struct {
	CellID int
	NodeID int
}

func (e *NodeNotInCellError) Error() string {
	return fmt.Sprintf("node id %d not in cell %d", e.NodeID, e.CellID)
}

// DuplicateIDError reports two different entities defined under one id
type DuplicateIDError struct {
	Kind EntityKind
	ID   int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s id %d is already defined", e.Kind, e.ID)
}

// DuplicateGroupError reports two groups of the same kind sharing a name
type DuplicateGroupError struct {
	Kind GroupKind
	Name string
}

func (e *DuplicateGroupError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// CatalogConflictError reports a second registration of a code with different attributes
type CatalogConflictError struct {
	Code     CellTypeCode
	Existing string
	Proposed string
}

func (e *CatalogConflictError) Error() string {
	return fmt.Sprintf("cell type code %d already registered as %s, cannot register %s",
		e.Code, e.Existing, e.Proposed)
}

// ConnectivityError reports a cell whose node list does not match its type.
// CellID is zero for a virtual cell, which gets no id when it is rejected.
type ConnectivityError struct {
	CellID   int
	Type     string
	Expected int
	Actual   int
}

func (e *ConnectivityError) Error() string {
	if e.CellID == 0 {
		return fmt.Sprintf("virtual cell of type %s expects %d nodes, got %d",
			e.Type, e.Expected, e.Actual)
	}
	return fmt.Sprintf("cell %d of type %s expects %d nodes, got %d",
		e.CellID, e.Type, e.Expected, e.Actual)
}

// UnsupportedTopologyError reports a face request on a cell type without a rule
type UnsupportedTopologyError struct {
	CellID int
	Type   string
}

func (e *UnsupportedTopologyError) Error() string {
	return fmt.Sprintf("face from two nodes not implemented for cell %d of type %s",
		e.CellID, e.Type)
}

// NoMatchingFaceError reports a node pair that shares no face of the cell
type NoMatchingFaceError struct {
	CellID  int
	NodeIDA int
	NodeIDB int
}

func (e *NoMatchingFaceError) Error() string {
	return fmt.Sprintf("no face of cell %d contains both node %d and node %d",
		e.CellID, e.NodeIDA, e.NodeIDB)
}

// UnknownCoordinateSystemError reports a node referencing a missing coordinate system
type UnknownCoordinateSystemError struct {
	NodeID   int
	Position int
}

func (e *UnknownCoordinateSystemError) Error() string {
	return fmt.Sprintf("coordinate system of position %d for node %d not found",
		e.Position, e.NodeID)
}
