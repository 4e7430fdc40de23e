/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/femxlate/families"
	"github.com/notargets/femxlate/mesh"
	"github.com/notargets/femxlate/readers"
	"github.com/notargets/femxlate/writers"
)

// FamiliesCmd represents the families command
var FamiliesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the node and cell families of a mesh deck without writing it",
	Long: `
Reads the mesh deck and prints the families its groups resolve into, with the
group overlap counts when asked.

femxlate families -F model.su2 --overlap`,
	RunE: func(cmd *cobra.Command, args []string) error {
		meshFile, _ := cmd.Flags().GetString("meshFile")
		if len(meshFile) == 0 {
			return fmt.Errorf("must supply a mesh file (-F, --meshFile) in .neu or .su2 format")
		}
		paramFile, _ := cmd.Flags().GetString("parameterFile")
		tp, err := loadParameters(paramFile, viper.GetViper())
		if err != nil {
			return err
		}
		logger, err := newLogger(tp.LogLevel)
		if err != nil {
			return err
		}
		m, err := readers.ReadMeshFile(meshFile, mesh.NewStandardCatalog(), logger)
		if err != nil {
			return err
		}
		m.Seal()
		nodeFams, cellFams, err := computeFamilies(m, tp, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writers.WriteFamilyReports(out, nodeFams, cellFams)
		}
		printFamilies(out, nodeFams)
		printFamilies(out, cellFams)
		if overlap, _ := cmd.Flags().GetBool("overlap"); overlap {
			for _, groups := range [][]*mesh.Group{m.NodeGroups(), m.CellGroups()} {
				if err = printOverlap(out, m, groups); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(FamiliesCmd)
	FamiliesCmd.Flags().StringP("meshFile", "F", "", "mesh file to read in Gambit (.neu) or SU2 (.su2) format")
	FamiliesCmd.Flags().StringP("parameterFile", "I", "", "YAML or TOML translation parameters file")
	FamiliesCmd.Flags().Bool("json", false, "print the families as a JSON report")
	FamiliesCmd.Flags().Bool("overlap", false, "print the number of entities shared by each pair of groups")
}

func printFamilies(out io.Writer, res *families.Result) {
	kind := res.Kind.EntityKind()
	members := res.MembersByFamily()
	fmt.Fprintf(out, "%s families: %d\n", kind, len(res.Families))
	fmt.Fprintf(out, "%8s %-32s %8s  %s\n", "ID", "Name", "Size", "Groups")
	for _, fam := range res.Families {
		name := fam.Name
		if fam.Generic {
			name += "*"
		}
		fmt.Fprintf(out, "%8d %-32s %8d  %s\n", fam.ID, name, len(members[fam.ID]),
			strings.Join(fam.GroupNames(), ","))
	}
	fmt.Fprintf(out, "%8d %-32s %8d\n", families.NoFamily, "(none)", len(res.Members(families.NoFamily)))
	if res.GenericNames > 0 {
		fmt.Fprintf(out, "* %d generic names\n", res.GenericNames)
	}
}

func printOverlap(out io.Writer, m *mesh.Mesh, groups []*mesh.Group) error {
	if len(groups) == 0 {
		return nil
	}
	ov, err := families.OverlapMatrix(m, groups)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s overlaps:\n", groups[0].Kind)
	pairs := ov.Pairs()
	if len(pairs) == 0 {
		fmt.Fprintf(out, "  none\n")
	}
	for _, pair := range pairs {
		fmt.Fprintf(out, "  %s & %s: %d\n", pair.A.Name, pair.B.Name, pair.Shared)
	}
	return nil
}
