package writers

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/notargets/femxlate/families"
)

var jsonAdapter = jsoniter.Config{
	SortMapKeys:            true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// FamilyReport summarises one partitioning run
type FamilyReport struct {
	Kind       string         `json:"kind"`
	Families   []FamilyRecord `json:"families"`
	Unassigned int            `json:"unassigned"`
	Generic    int            `json:"generic_names"`
}

type FamilyRecord struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Groups  []string `json:"groups"`
	Size    int      `json:"size"`
	Generic bool     `json:"generic,omitempty"`
}

func NewFamilyReport(res *families.Result) FamilyReport {
	members := res.MembersByFamily()
	rep := FamilyReport{
		Kind:       res.Kind.EntityKind().String(),
		Families:   make([]FamilyRecord, 0, len(res.Families)),
		Unassigned: len(res.Members(families.NoFamily)),
		Generic:    res.GenericNames,
	}
	for _, fam := range res.Families {
		rep.Families = append(rep.Families, FamilyRecord{
			ID:      fam.ID,
			Name:    fam.Name,
			Groups:  fam.GroupNames(),
			Size:    len(members[fam.ID]),
			Generic: fam.Generic,
		})
	}
	return rep
}

// WriteFamilyReports writes the reports as an indented JSON array
func WriteFamilyReports(out io.Writer, results ...*families.Result) error {
	reports := make([]FamilyReport, 0, len(results))
	for _, res := range results {
		if res != nil {
			reports = append(reports, NewFamilyReport(res))
		}
	}
	b, err := jsonAdapter.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}

// ReadFamilyReports decodes reports written by WriteFamilyReports
func ReadFamilyReports(r io.Reader) ([]FamilyReport, error) {
	var reports []FamilyReport
	if err := jsonAdapter.NewDecoder(r).Decode(&reports); err != nil {
		return nil, err
	}
	return reports, nil
}
