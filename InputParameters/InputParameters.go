package InputParameters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ghodss/yaml"

	"github.com/notargets/femxlate/families"
	"github.com/notargets/femxlate/utils"
)

// TranslationMode sets how strictly input problems are treated
type TranslationMode string

const (
	BestEffort  TranslationMode = "best_effort"
	MeshAtLeast TranslationMode = "mesh_at_least"
	Strict      TranslationMode = "strict"
)

const DefaultSkinGroupName = "SKIN"

const defaultParameters = `
Title = "femxlate translation"
LogLevel = "info"
TranslationMode = "best_effort"
MaxFamilyNameLength = 64
CreateSkin = false
SkinGroupName = "SKIN"
ParallelFamilies = false
`

// Parameters obtained from the YAML or TOML parameter file
type TranslationParameters struct {
	Title               string          `yaml:"Title" toml:"Title"`
	OutputFile          string          `yaml:"OutputFile" toml:"OutputFile"`
	LogLevel            string          `yaml:"LogLevel" toml:"LogLevel"`
	TranslationMode     TranslationMode `yaml:"TranslationMode" toml:"TranslationMode"`
	MaxFamilyNameLength int             `yaml:"MaxFamilyNameLength" toml:"MaxFamilyNameLength"`
	CreateSkin          bool            `yaml:"CreateSkin" toml:"CreateSkin"`
	SkinGroupName       string          `yaml:"SkinGroupName" toml:"SkinGroupName"`
	NodeGroupOrder      []string        `yaml:"NodeGroupOrder" toml:"NodeGroupOrder"` // empty means every node group, in deck order
	CellGroupOrder      []string        `yaml:"CellGroupOrder" toml:"CellGroupOrder"`
	ParallelFamilies    bool            `yaml:"ParallelFamilies" toml:"ParallelFamilies"`
}

func NewTranslationParameters() *TranslationParameters {
	tp := &TranslationParameters{}
	if _, err := toml.Decode(defaultParameters, tp); err != nil {
		panic(fmt.Errorf("decoding default parameters: %w", err))
	}
	return tp
}

// Parse reads YAML over the current values
func (tp *TranslationParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, tp); err != nil {
		return err
	}
	tp.adjust()
	return nil
}

func (tp *TranslationParameters) ParseTOML(data []byte) error {
	if _, err := toml.Decode(string(data), tp); err != nil {
		return err
	}
	tp.adjust()
	return nil
}

// ParseFile reads defaults then the parameter file, chosen by extension:
// .toml is TOML, anything else YAML
func ParseFile(path string) (*TranslationParameters, error) {
	tp := NewTranslationParameters()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, tp); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		tp.adjust()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err = tp.Parse(data); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	if err := tp.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tp, nil
}

func (tp *TranslationParameters) adjust() {
	tp.LogLevel = strings.ToLower(strings.TrimSpace(tp.LogLevel))
	tp.TranslationMode = TranslationMode(strings.ToLower(string(tp.TranslationMode)))
	if tp.SkinGroupName == "" {
		tp.SkinGroupName = DefaultSkinGroupName
	}
	if tp.MaxFamilyNameLength == 0 {
		tp.MaxFamilyNameLength = families.DefaultMaxNameLength
	}
}

func (tp *TranslationParameters) Validate() error {
	switch tp.TranslationMode {
	case BestEffort, MeshAtLeast, Strict:
	default:
		return fmt.Errorf("unknown TranslationMode %q, expected %s, %s or %s",
			tp.TranslationMode, BestEffort, MeshAtLeast, Strict)
	}
	if _, err := utils.ParseLogLevel(tp.LogLevel); err != nil {
		return err
	}
	if tp.MaxFamilyNameLength < families.MinMaxNameLength {
		return fmt.Errorf("MaxFamilyNameLength %d is below the minimum of %d",
			tp.MaxFamilyNameLength, families.MinMaxNameLength)
	}
	if err := checkUnique("NodeGroupOrder", tp.NodeGroupOrder); err != nil {
		return err
	}
	return checkUnique("CellGroupOrder", tp.CellGroupOrder)
}

func checkUnique(field string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%s lists group %q twice", field, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Strict is true when coordinate and validation problems abort the run
func (tp *TranslationParameters) Strict() bool {
	return tp.TranslationMode == Strict
}

func (tp *TranslationParameters) PartitionConfig() *families.PartitionConfig {
	pc := families.DefaultPartitionConfig()
	pc.MaxNameLength = tp.MaxFamilyNameLength
	return pc
}

func (tp *TranslationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", tp.Title)
	fmt.Printf("[%s]\t\t= Output File\n", tp.OutputFile)
	fmt.Printf("[%s]\t\t\t= Log Level\n", tp.LogLevel)
	fmt.Printf("[%s]\t= Translation Mode\n", tp.TranslationMode)
	fmt.Printf("[%d]\t\t\t= Max Family Name Length\n", tp.MaxFamilyNameLength)
	fmt.Printf("[%v]\t\t\t= Create Skin (%s)\n", tp.CreateSkin, tp.SkinGroupName)
	fmt.Printf("[%v]\t\t\t= Parallel Families\n", tp.ParallelFamilies)
	fmt.Printf("NodeGroupOrder = %v\n", tp.NodeGroupOrder)
	fmt.Printf("CellGroupOrder = %v\n", tp.CellGroupOrder)
}
