package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/BigDee2008/FAQForge/models"
	"github.com/BigDee2008/FAQForge/service"

	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the 'generate' command
func NewGenerateCmd(opener *appOpener) *cobra.Command {
	var userID string
	var input service.GenerateFaqInput
	var style string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an FAQ for a user, subject to the daily limit",
		Example: `  faqctl generate --user u1 --type "Bakery" \
    --description "Family bakery selling sourdough and pastries" --style simple`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opener.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			input.FaqStyle = models.FaqStyle(style)
			result, err := a.Faqs.GenerateFaq(cmd.Context(), userID, input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id the generation counts against")
	cmd.Flags().StringVar(&input.BusinessType, "type", "", "Business type")
	cmd.Flags().StringVar(&input.BusinessDescription, "description", "", "Business description (at least 10 characters)")
	cmd.Flags().StringVar(&input.WebsiteURL, "website", "", "Business website URL")
	cmd.Flags().StringVar(&style, "style", "", "FAQ style: accordion or simple")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// NewShowCmd creates the 'show' command
func NewShowCmd(opener *appOpener) *cobra.Command {
	var part string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored FAQ",
		Args:  cobra.ExactArgs(1),
		Example: `  faqctl show 42
  faqctl show 42 --part html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid FAQ ID %q", args[0])
			}

			a, err := opener.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			faq, err := a.Faqs.GetFaq(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch part {
			case "", "json":
				return writeJSON(out, faq)
			case "html":
				_, err = fmt.Fprintln(out, faq.HTMLCode)
			case "css":
				_, err = fmt.Fprintln(out, faq.CSSCode)
			default:
				return fmt.Errorf("unknown part %q (json, html, css)", part)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&part, "part", "json", "What to print: json, html or css")
	return cmd
}

// NewExportCmd creates the 'export' command
func NewExportCmd(opener *appOpener) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a stored FAQ as an HTML or Markdown document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid FAQ ID %q", args[0])
			}
			f, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}

			a, err := opener.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Exports.Export(cmd.Context(), id, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d bytes) to %s\n", result.FileName, result.Size, result.StoragePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", "Document format: html or markdown")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
