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

	"github.com/spf13/cobra"

	"github.com/notargets/femxlate/mesh"
)

// CatalogCmd represents the catalog command
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the cell types known to the translator",
	Run: func(cmd *cobra.Command, args []string) {
		printCatalog(cmd.OutOrStdout(), mesh.NewStandardCatalog())
	},
}

func init() {
	rootCmd.AddCommand(CatalogCmd)
}

func printCatalog(out io.Writer, catalog *mesh.Catalog) {
	fmt.Fprintf(out, "%6s %-8s %6s %4s %6s\n", "Code", "Name", "Nodes", "Dim", "Faces")
	for _, ct := range catalog.Types() {
		nodes := fmt.Sprintf("%d", ct.NumNodes)
		if !ct.SpecificSize() {
			nodes = "var"
		}
		fmt.Fprintf(out, "%6d %-8s %6s %4s %6d\n", int(ct.Code), ct.Name, nodes, ct.Dimension, len(ct.Faces))
	}
}
