package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mpdspl/internal/fields"
)

func newFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "fields",
		Short:       "List the field codes usable in rules",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, field := range fields.All() {
				rows = append(rows, []string{field.Code, fieldTitle(field), field.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Attribute", "Description"},
				rows,
				nil,
			))
			return nil
		},
	}
}

// fieldTitle renders the MPD attribute name in title case for display; the
// database itself mixes cases ("Artist" but "mtime").
func fieldTitle(f fields.Field) string {
	return cases.Title(language.Und).String(f.Attr)
}
