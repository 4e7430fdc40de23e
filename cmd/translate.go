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
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/femxlate/InputParameters"
	"github.com/notargets/femxlate/families"
	"github.com/notargets/femxlate/mesh"
	"github.com/notargets/femxlate/metrics"
	"github.com/notargets/femxlate/readers"
	"github.com/notargets/femxlate/utils"
	"github.com/notargets/femxlate/writers"
)

type TranslateOptions struct {
	MeshFile    string
	Parameters  *InputParameters.TranslationParameters
	Perf        bool
	MetricsFile string
	Logger      *utils.Logger
}

type TranslateReport struct {
	Mesh         *mesh.Mesh
	NodeFamilies *families.Result
	CellFamilies *families.Result
	OutputFile   string
	Recorder     *metrics.Recorder
}

// TranslateCmd represents the translate command
var TranslateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a mesh deck into an ASC deck with node and cell families",
	Long: `
Reads the mesh deck, resolves global coordinates, validates the mesh, optionally
adds a skin group, partitions node and cell groups into families and writes the
ASC deck.

femxlate translate -F model.neu -I params.yaml -o model.asc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			err  error
			opts = &TranslateOptions{}
		)
		if opts.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return err
		}
		if len(opts.MeshFile) == 0 {
			return fmt.Errorf("must supply a mesh file (-F, --meshFile) in .neu or .su2 format")
		}
		paramFile, _ := cmd.Flags().GetString("parameterFile")
		if opts.Parameters, err = loadParameters(paramFile, viper.GetViper()); err != nil {
			return err
		}
		if opts.Logger, err = newLogger(opts.Parameters.LogLevel); err != nil {
			return err
		}
		opts.Perf, _ = cmd.Flags().GetBool("perf")
		opts.MetricsFile, _ = cmd.Flags().GetString("metricsFile")

		cpuDir, _ := cmd.Flags().GetString("cpuprofile")
		memDir, _ := cmd.Flags().GetString("memprofile")
		switch {
		case cpuDir != "" && memDir != "":
			return fmt.Errorf("--cpuprofile and --memprofile cannot be used together")
		case cpuDir != "":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuDir), profile.NoShutdownHook).Stop()
		case memDir != "":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(memDir), profile.NoShutdownHook).Stop()
		}

		if opts.Logger.Enabled(utils.DEBUG) {
			opts.Parameters.Print()
		}
		_, err = RunTranslate(opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(TranslateCmd)
	flags := TranslateCmd.Flags()
	flags.StringP("meshFile", "F", "", "mesh file to read in Gambit (.neu) or SU2 (.su2) format")
	flags.StringP("parameterFile", "I", "", "YAML or TOML translation parameters file")
	flags.StringP("output", "o", "", "ASC file to write (default is the mesh file with an .asc extension)")
	flags.StringP("mode", "m", "", "translation mode: best_effort, mesh_at_least or strict")
	flags.Int("maxNameLength", 0, "longest family name before generic names are used")
	flags.Bool("skin", false, "add a cell group holding the boundary faces of the solid cells")
	flags.String("skinGroup", "", "name of the skin cell group")
	flags.Bool("parallel", false, "compute node and cell families concurrently")
	flags.StringSlice("nodeGroups", nil, "node groups to partition, in order (default all)")
	flags.StringSlice("cellGroups", nil, "cell groups to partition, in order (default all)")
	flags.String("cpuprofile", "", "directory to write a CPU profile to")
	flags.String("memprofile", "", "directory to write a memory profile to")
	flags.Bool("perf", false, "count CPU cycles of family partitioning with hardware counters (linux)")
	flags.String("metricsFile", "", "write translation metrics in prometheus textfile format")
	for _, key := range []string{"output", "mode", "maxNameLength", "skin", "skinGroup", "parallel",
		"nodeGroups", "cellGroups"} {
		viper.BindPFlag(key, flags.Lookup(key))
	}
}

// loadParameters reads the parameter file, if any, then applies config file,
// environment and flag values from v
func loadParameters(paramFile string, v *viper.Viper) (tp *InputParameters.TranslationParameters, err error) {
	if paramFile != "" {
		if tp, err = InputParameters.ParseFile(paramFile); err != nil {
			return nil, err
		}
	} else {
		tp = InputParameters.NewTranslationParameters()
	}
	if v.IsSet("logLevel") {
		tp.LogLevel = strings.ToLower(v.GetString("logLevel"))
	}
	if v.IsSet("output") {
		tp.OutputFile = v.GetString("output")
	}
	if v.IsSet("mode") {
		tp.TranslationMode = InputParameters.TranslationMode(strings.ToLower(v.GetString("mode")))
	}
	if v.IsSet("maxNameLength") {
		tp.MaxFamilyNameLength = v.GetInt("maxNameLength")
	}
	if v.IsSet("skin") {
		tp.CreateSkin = v.GetBool("skin")
	}
	if v.IsSet("skinGroup") {
		tp.SkinGroupName = v.GetString("skinGroup")
	}
	if v.IsSet("parallel") {
		tp.ParallelFamilies = v.GetBool("parallel")
	}
	if v.IsSet("nodeGroups") {
		tp.NodeGroupOrder = v.GetStringSlice("nodeGroups")
	}
	if v.IsSet("cellGroups") {
		tp.CellGroupOrder = v.GetStringSlice("cellGroups")
	}
	if err = tp.Validate(); err != nil {
		return nil, err
	}
	return tp, nil
}

// RunTranslate runs the whole translation. Mesh validation problems abort in
// strict and mesh_at_least modes; in best_effort mode undefined nodes and the
// cells using them are left out of the deck. Family problems abort only in
// strict mode, otherwise the mesh is written without families.
func RunTranslate(opts *TranslateOptions) (rpt *TranslateReport, err error) {
	var (
		tp  = opts.Parameters
		log = opts.Logger
		rec = metrics.NewRecorder()
	)
	if tp == nil {
		tp = InputParameters.NewTranslationParameters()
	}
	if log == nil {
		log = utils.NewDiscardLogger()
	}
	rpt = &TranslateReport{Recorder: rec, OutputFile: tp.OutputFile}
	if rpt.OutputFile == "" {
		rpt.OutputFile = strings.TrimSuffix(opts.MeshFile, filepath.Ext(opts.MeshFile)) + ".asc"
	}

	var m *mesh.Mesh
	if err = rec.Time("read", func() (err error) {
		m, err = readers.ReadMeshFile(opts.MeshFile, mesh.NewStandardCatalog(), log)
		return
	}); err != nil {
		return nil, err
	}
	rpt.Mesh = m

	if err = rec.Time("coordinates", func() error {
		return m.ResolveGlobalCoordinates(tp.Strict())
	}); err != nil {
		return nil, err
	}

	if err = rec.Time("validate", m.Validate); err != nil {
		if tp.TranslationMode != InputParameters.BestEffort {
			return nil, fmt.Errorf("invalid mesh %s: %w", opts.MeshFile, err)
		}
		log.Warnf("mesh %s has problems, continuing: %v", opts.MeshFile, err)
	}

	if tp.CreateSkin {
		if err = rec.Time("skin", func() error {
			_, err := m.CreateSkin(tp.SkinGroupName)
			return err
		}); err != nil {
			return nil, err
		}
	}
	m.Seal()
	m.Statistics()
	rec.RecordMesh(m)

	partition := func() error {
		return rec.Time("families", func() (err error) {
			rpt.NodeFamilies, rpt.CellFamilies, err = computeFamilies(m, tp, log)
			return
		})
	}
	if opts.Perf {
		err = withCPUCycles(log, partition)
	} else {
		err = partition()
	}
	if err != nil {
		if tp.Strict() {
			return nil, err
		}
		log.Warnf("family partitioning failed, writing the mesh without families: %v", err)
		rpt.NodeFamilies, rpt.CellFamilies = nil, nil
	}
	rec.RecordFamilies(rpt.NodeFamilies)
	rec.RecordFamilies(rpt.CellFamilies)

	w := writers.NewASCWriter(tp.Title, log)
	if err = rec.Time("write", func() error {
		return w.WriteFile(rpt.OutputFile, m, rpt.NodeFamilies, rpt.CellFamilies)
	}); err != nil {
		return nil, err
	}
	log.Infof("wrote %s", rpt.OutputFile)

	if opts.MetricsFile != "" {
		if err = rec.WriteToTextfile(opts.MetricsFile); err != nil {
			return nil, err
		}
	}
	return rpt, nil
}

// computeFamilies partitions the selected node and cell groups. The mesh is
// sealed, so both kinds may run concurrently.
func computeFamilies(m *mesh.Mesh, tp *InputParameters.TranslationParameters,
	log *utils.Logger) (nodeFams, cellFams *families.Result, err error) {
	p, err := families.NewPartitioner(tp.PartitionConfig(), log)
	if err != nil {
		return nil, nil, err
	}
	nodeGroups, err := selectGroups(m, mesh.NodeGroupKind, tp.NodeGroupOrder)
	if err != nil {
		return nil, nil, err
	}
	cellGroups, err := selectGroups(m, mesh.CellGroupKind, tp.CellGroupOrder)
	if err != nil {
		return nil, nil, err
	}

	nodeRun := func() (err error) {
		nodeFams, err = p.NodeFamilies(m, nodeGroups)
		return
	}
	cellRun := func() (err error) {
		cellFams, err = p.CellFamilies(m, cellGroups)
		return
	}
	if !tp.ParallelFamilies {
		if err = nodeRun(); err != nil {
			return nil, nil, err
		}
		if err = cellRun(); err != nil {
			return nil, nil, err
		}
		return nodeFams, cellFams, nil
	}
	var g errgroup.Group
	g.Go(nodeRun)
	g.Go(cellRun)
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}
	return nodeFams, cellFams, nil
}

func selectGroups(m *mesh.Mesh, kind mesh.GroupKind, order []string) ([]*mesh.Group, error) {
	if len(order) == 0 {
		if kind == mesh.NodeGroupKind {
			return m.NodeGroups(), nil
		}
		return m.CellGroups(), nil
	}
	return m.GroupsByName(kind, order)
}

// withCPUCycles runs fn under a hardware cycle counter. When the counter
// cannot be opened fn runs uncounted.
func withCPUCycles(log *utils.Logger, fn func() error) error {
	var ran bool
	cycles, err := cpuCycles(func() error {
		ran = true
		return fn()
	})
	if !ran {
		log.Warnf("cpu cycle counter unavailable: %v", err)
		return fn()
	}
	if err == nil {
		log.Infof("family partitioning: %d cpu cycles", cycles)
	}
	return err
}
