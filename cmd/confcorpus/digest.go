package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/confcorpus/internal/digest"
	"github.com/pdiddy/confcorpus/pkg/types"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Export a title/abstract/topics digest of the record store",
	Long: `Digest walks the record store and writes a plain-text digest with one
block per record: title, abstract, and topics, separated by a rule. Useful
for skimming a crawled corpus without opening individual records.`,
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().String("records-dir", "data/records", "directory of per-paper JSON records")
	digestCmd.Flags().String("out", "data/digest.txt", "digest output path")

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	recordsDir, _ := cmd.Flags().GetString("records-dir")
	outPath, _ := cmd.Flags().GetString("out")

	cfg := types.DigestConfig{RecordsDir: recordsDir, OutputPath: outPath}

	_, err := digest.Write(cfg.RecordsDir, cfg.OutputPath, os.Stdout)
	return err
}
