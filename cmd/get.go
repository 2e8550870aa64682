package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"aapctl/internal/cli"
	"aapctl/internal/formatting"
	"aapctl/internal/gateway"
	"aapctl/internal/resource"
)

var (
	getOutput  string
	getGateway gatewayFlags
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <kind> [name]",
		Short: "List or fetch gateway resources",
		Long: `Get lists the items of a resource kind, or fetches a single item
by its unique name. Known kinds: ` + fmt.Sprintf("%v", resource.Kinds()) + `.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: getKindCompletion,
		RunE:              runGet,
	}

	cmd.Flags().StringVarP(&getOutput, "output", "o", "table", "Output format (table, json, yaml)")
	getGateway.register(cmd)

	return cmd
}

func getKindCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return resource.Kinds(), cobra.ShellCompDirectiveNoFileComp
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(getOutput); err != nil {
		return err
	}
	schema, err := resource.SchemaFor(args[0])
	if err != nil {
		return err
	}

	client, err := gateway.NewClient(getGateway.config(cmd))
	if err != nil {
		return err
	}

	path := schema.Endpoint
	nameField := schema.UniqueKey[0]
	if len(args) == 2 {
		query := url.Values{nameField: []string{args[1]}}
		path += "?" + query.Encode()
	}

	body, err := client.Get(cmd.Context(), path)
	if err != nil {
		return err
	}
	items := gateway.Results(body)

	if len(args) == 2 {
		// The filter may match loosely; keep exact matches only.
		exact := items[:0]
		for _, item := range items {
			if fmt.Sprintf("%v", item[nameField]) == args[1] {
				exact = append(exact, item)
			}
		}
		items = exact
		if len(items) == 0 {
			return fmt.Errorf("%s %q not found", schema.Kind, args[1])
		}
	}

	switch cli.OutputFormat(getOutput) {
	case cli.OutputFormatTable:
		fmt.Fprint(cmd.OutOrStdout(),
			formatting.RenderTable(schema.DisplayFields, formatting.ItemRows(items, schema.DisplayFields)))
		return nil
	default:
		out, err := cli.Marshal(cli.OutputFormat(getOutput), items)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
}
