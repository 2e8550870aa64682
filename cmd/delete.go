package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"aapctl/internal/cli"
	"aapctl/internal/gateway"
	"aapctl/internal/manifest"
	"aapctl/internal/resource"
)

var deleteGateway gatewayFlags

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <kind> <name>",
		Short: "Delete a gateway resource by name",
		Long: `Delete reconciles a single resource to state=absent. Deleting a
resource that does not exist is a no-op, not an error.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: getKindCompletion,
		RunE:              runDelete,
	}

	deleteGateway.register(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	schema, err := resource.SchemaFor(args[0])
	if err != nil {
		return err
	}

	client, err := gateway.NewClient(deleteGateway.config(cmd))
	if err != nil {
		return err
	}

	entry := manifest.Entry{
		Kind:   schema.Kind,
		State:  "absent",
		Fields: map[string]any{schema.UniqueKey[0]: args[1]},
	}
	summary, err := cli.NewApplier(client, false, true).Run(cmd.Context(), []manifest.Entry{entry})
	if err != nil {
		return err
	}

	if summary.Changed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %q deleted\n", schema.Kind, args[1])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %q not found; nothing to do\n", schema.Kind, args[1])
	}
	return nil
}
