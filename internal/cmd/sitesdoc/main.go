package main

//
// Main
//

import (
	"os"

	"github.com/apex/log"
	"github.com/jkriig/privacy-sweep/internal/log/handlers/cli"
	"github.com/jkriig/privacy-sweep/internal/runtimex"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "sitesdoc",
		Short: "Tool for regenerating the site registry documentation",
	}
	root.AddCommand(generateSubcommand())
	log.Log = &log.Logger{Level: log.InfoLevel, Handler: cli.Default}
	err := root.Execute()
	runtimex.PanicOnError(err, "root.Execute")
}

func generateSubcommand() *cobra.Command {
	output := "docs/SITES.md"
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Writes the registry documentation",
		Run: func(cmd *cobra.Command, args []string) {
			err := os.WriteFile(output, generateDocs(), 0644)
			runtimex.PanicOnError(err, "os.WriteFile")
			log.Infof("wrote %s", output)
		},
	}
	cmd.Flags().StringVar(&output, "output", output, "path of the file to write")
	return cmd
}
