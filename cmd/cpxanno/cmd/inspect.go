package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/cpxanno/internal/anno"
	"github.com/psantana5/cpxanno/pkg/models"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <model-file>",
	Short: "Summarize the annotations of a model per scope",
	Long: `Shows, for each annotated scope, the CPLEX object type it maps to and how
many of its annotations would be exported. Annotations on objects that are
not part of the model (negative index) are counted as detached.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type scopeSummary struct {
	Scope      string `json:"scope" yaml:"scope"`
	ObjectType int    `json:"object_type,omitempty" yaml:"object_type,omitempty"`
	Prefix     string `json:"prefix" yaml:"prefix"`
	Entries    int    `json:"entries" yaml:"entries"`
	Exported   int    `json:"exported" yaml:"exported"`
	Detached   int    `json:"detached" yaml:"detached"`
	Ignored    bool   `json:"ignored" yaml:"ignored"`
}

type inspectResponse struct {
	Model  string         `json:"model" yaml:"model"`
	Scopes []scopeSummary `json:"scopes" yaml:"scopes"`
}

func summarize(model *models.Model) inspectResponse {
	resp := inspectResponse{Model: model.Name, Scopes: []scopeSummary{}}
	for _, row := range model.AnnotationsByScope() {
		s := scopeSummary{
			Scope:   row.Scope.String(),
			Prefix:  row.Scope.Prefix(),
			Entries: len(row.Annotations),
		}
		code, ok := anno.ObjectType(row.Scope)
		s.ObjectType = code
		s.Ignored = !ok
		for _, a := range row.Annotations {
			switch {
			case a.Object.Index() < 0:
				s.Detached++
			case ok:
				s.Exported++
			}
		}
		resp.Scopes = append(resp.Scopes, s)
	}
	return resp
}

func runInspect(cmd *cobra.Command, args []string) error {
	model, err := loadModel(cmd, args[0])
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	resp := summarize(model)
	out := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp)

	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		return encoder.Encode(resp)

	default:
		if len(resp.Scopes) == 0 {
			fmt.Fprintln(out, "No annotations")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.Header("Scope", "Object Type", "Prefix", "Entries", "Exported", "Detached")
		for _, s := range resp.Scopes {
			objType := "-"
			if !s.Ignored {
				objType = strconv.Itoa(s.ObjectType)
			}
			table.Append([]string{
				s.Scope,
				objType,
				s.Prefix,
				strconv.Itoa(s.Entries),
				strconv.Itoa(s.Exported),
				strconv.Itoa(s.Detached),
			})
		}
		return table.Render()
	}
}
