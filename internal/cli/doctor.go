package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/chainkit-labs/hardhat-create-app/internal/pipeline"
	"github.com/chainkit-labs/hardhat-create-app/internal/scaffold"
	"github.com/chainkit-labs/hardhat-create-app/internal/ux"
	"github.com/spf13/cobra"
)

// runDoctor checks the tools and templates of the resolved variant. Every
// check is reported before the first failure is returned.
func runDoctor(cmd *cobra.Command) error {
	settings := resolveSettings(cmd)
	variant, err := pipeline.ParseVariant(settings.Variant)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tool check (%s):\n", variant)
	toolErr := runPreflight(ctx, out, variant.String(), true)

	fmt.Fprintln(out, "Templates:")
	templateErr := checkTemplates(cmd, settings.TemplateDir, variant)

	if toolErr != nil {
		return toolErr
	}
	return templateErr
}

func checkTemplates(cmd *cobra.Command, dir string, variant pipeline.Variant) error {
	out := cmd.OutOrStdout()
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			ux.Status(out, false, dir, "template directory is not readable")
			return fmt.Errorf("template directory %s is not usable", dir)
		}
		ux.Status(out, true, dir, "custom template directory")
		return nil
	}

	files, err := scaffold.TemplateFiles(variant.String())
	if err != nil {
		ux.Status(out, false, "embedded templates", err.Error())
		return err
	}
	ux.Status(out, true, "embedded templates", fmt.Sprintf("%d files", len(files)))
	return nil
}
