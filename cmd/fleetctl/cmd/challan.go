package cmd

import (
	"context"
	"os"

	"go-fleet-ws/internal/document"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/service"
	"go-fleet-ws/internal/storage"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	challanOut  string
	challanHTML bool
)

var challanCmd = &cobra.Command{
	Use:   "challan <transfer-id>",
	Short: "Render the delivery challan of an approved transfer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid transfer id %s", args[0])
		}

		cfg, db := connect()
		ctx := context.Background()
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("Unable to open object store: %s", err)
		}
		challans := service.NewChallanService(
			repository.NewTransferRepo(db),
			repository.NewUserRepo(db),
			document.NewChromeRenderer(cfg.ChallanTimeout),
			store,
		)

		var out []byte
		if challanHTML {
			out, err = challans.HTML(ctx, id)
		} else {
			out, _, err = challans.PDF(ctx, id)
		}
		if err != nil {
			log.Fatalf("Unable to render challan: %s", err)
		}

		if challanOut == "" || challanOut == "-" {
			_, _ = os.Stdout.Write(out)
			return
		}
		if err := os.WriteFile(challanOut, out, 0o644); err != nil {
			log.Fatalf("Unable to write %s: %s", challanOut, err)
		}
		log.WithField("file", challanOut).Info("challan written")
	},
}

func init() {
	challanCmd.Flags().StringVarP(&challanOut, "out", "o", "", "output file, stdout when empty")
	challanCmd.Flags().BoolVar(&challanHTML, "html", false, "write HTML instead of PDF")
	rootCmd.AddCommand(challanCmd)
}
