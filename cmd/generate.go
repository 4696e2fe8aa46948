package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/vibe-ui-kit/pkg/controller"
	"github.com/shouni/vibe-ui-kit/pkg/domain"
	"github.com/shouni/vibe-ui-kit/pkg/project"
)

var (
	genBrief  string
	genPreset string
	genOut    string
	genHTML   string
)

var generateCmd = &cobra.Command{
	Use:   "generate <image path or URI>",
	Short: "Generate a project archive from an image mockup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fio, err := newFileIO(ctx, args[0], genOut, genHTML)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer fio.close()

		data, err := readImage(ctx, fio.reader, args[0], cfg.Image.MaxUploadBytes)
		if err != nil {
			return err
		}

		gen, err := newGenerator(cfg)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}
		ctrl, err := controller.New(gen)
		if err != nil {
			return err
		}
		if err := ctrl.SelectImage(data, ""); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if genPreset != "" {
			if _, err := ctrl.ApplyPreset(genPreset); err != nil {
				return err
			}
		}
		if genBrief != "" {
			ctrl.SetPrompt(genBrief)
		}

		slog.Info("generating UI", "image", args[0], "mime", ctrl.State().MimeType)
		if err := ctrl.Generate(ctx); err != nil {
			return err
		}

		st := ctrl.State()
		if st.Status != domain.StatusSuccess {
			return errors.New(st.ErrorMessage)
		}

		if genHTML != "" {
			if err := fio.writer.Write(ctx, genHTML, strings.NewReader(st.Markup), "text/html; charset=utf-8"); err != nil {
				return fmt.Errorf("writing html: %w", err)
			}
		}
		if err := project.ExportTo(ctx, fio.writer, genOut, st.Files()); err != nil {
			return fmt.Errorf("exporting project: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", genOut)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&genBrief, "brief", "b", "", "design brief / vibe (overrides --preset)")
	generateCmd.Flags().StringVarP(&genPreset, "preset", "p", "", "preset id to use as the brief (see `vibe presets`)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", project.ArchiveName, "output zip path or gs:// / s3:// URI")
	generateCmd.Flags().StringVar(&genHTML, "html", "", "also write the raw markup to this path or URI")
	rootCmd.AddCommand(generateCmd)
}
