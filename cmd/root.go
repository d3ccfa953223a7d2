package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ragserver",
	Short: "PDF question-answering backend with retrieval-augmented generation",
	Long: `ragserver ingests PDF documents, indexes their text in a vector store,
and answers natural-language questions by retrieving relevant passages
and asking a hosted language model to compose a grounded answer.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".ragserver.yml", "config file path")
}
