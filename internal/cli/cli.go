package cli

import (
	"github.com/spf13/cobra"
)

func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "webpconv",
		Short:         "Converts WebP images to JPEG or PNG",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(ServeAppCommand(), ConvertCommand(), CacheCommands())
	return root
}

func Execute() error {
	return RootCommand().Execute()
}
