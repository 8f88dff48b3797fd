package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StratoNode/strato/api"
	"github.com/StratoNode/strato/compute"
)

func main() {
	root := rootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stratoctl",
		Short: "Manage servers on a Strato compute endpoint",
		Long: `stratoctl talks to an OpenStack-compatible compute endpoint.

Credentials come from a JSON config file ({"url": ..., "token": ...})
named by --config or the STRATOCTL_CONFIG environment variable, or from
the STRATO_URL and STRATO_TOKEN environment variables directly.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to JSON config file")

	cmd.AddCommand(listCmd())
	cmd.AddCommand(showCmd())
	cmd.AddCommand(createCmd())
	cmd.AddCommand(deleteCmd())
	cmd.AddCommand(rebootCmd())
	cmd.AddCommand(resizeCmd())
	cmd.AddCommand(ipsCmd())

	return cmd
}

func getService(cmd *cobra.Command) (*compute.Service, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("STRATOCTL_CONFIG")
	}
	if path != "" {
		jsonData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
		return api.ServiceFromJSON(jsonData)
	}
	return api.ServiceFromConfig(&api.JSONConfig{
		URL:   os.Getenv("STRATO_URL"),
		Token: os.Getenv("STRATO_TOKEN"),
	})
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := getService(cmd)
			if err != nil {
				return err
			}
			servers, err := service.ListServers()
			if err != nil {
				return err
			}
			for _, server := range servers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", server.ID, server.Name, server.Status, server.PreferredIP())
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := getService(cmd)
			if err != nil {
				return err
			}
			server, err := service.ServerFromID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", server.ID)
			fmt.Fprintf(out, "Name:     %s\n", server.Name)
			fmt.Fprintf(out, "Status:   %s\n", server.Status)
			fmt.Fprintf(out, "Progress: %d\n", server.Progress)
			fmt.Fprintf(out, "IPv4:     %s\n", server.AccessIPv4)
			fmt.Fprintf(out, "IPv6:     %s\n", server.AccessIPv6)
			fmt.Fprintf(out, "Created:  %s\n", server.Created)
			fmt.Fprintf(out, "Updated:  %s\n", server.Updated)
			for network, addresses := range server.Addresses {
				for _, address := range addresses {
					fmt.Fprintf(out, "Address:  %s %s (v%d)\n", network, address.Addr, address.Version)
				}
			}
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := getService(cmd)
			if err != nil {
				return err
			}
			imageID, _ := cmd.Flags().GetString("image")
			flavorID, _ := cmd.Flags().GetString("flavor")

			server := service.NewServer()
			server.Image = &compute.Image{ID: imageID}
			server.Flavor = &compute.Flavor{ID: flavorID}
			if err := server.Create(compute.Params{compute.FieldName: args[0]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created server %s (status %s)\n", server.ID, server.Status)
			if server.AdminPass != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "admin password: %s\n", server.AdminPass)
			}
			return nil
		},
	}
	cmd.Flags().String("image", "", "Image ID or URL (required)")
	cmd.Flags().String("flavor", "", "Flavor ID or URL (required)")
	cmd.MarkFlagRequired("image")
	cmd.MarkFlagRequired("flavor")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := getService(cmd)
			if err != nil {
				return err
			}
			server, err := service.ServerFromID(args[0])
			if err != nil {
				return err
			}
			return server.Delete()
		},
	}
}

func rebootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reboot <id>",
		Short: "Reboot a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := getService(cmd)
			if err != nil {
				return err
			}
			server, err := service.ServerFromID(args[0])
			if err != nil {
				return err
			}
			rebootType := compute.SoftReboot
			if hard, _ := cmd.Flags().GetBool("hard"); hard {
				rebootType = compute.HardReboot
			}
			return server.Reboot(rebootType)
		},
	}
	cmd.Flags().Bool("hard", false, "Power-cycle instead of a soft reboot")
	return cmd
}

func resizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resize <id>",
		Short: "Resize a server, or confirm/revert a pending resize",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := getService(cmd)
			if err != nil {
				return err
			}
			server, err := service.ServerFromID(args[0])
			if err != nil {
				return err
			}
			if confirm, _ := cmd.Flags().GetBool("confirm"); confirm {
				return server.ResizeConfirm()
			}
			if revert, _ := cmd.Flags().GetBool("revert"); revert {
				return server.ResizeRevert()
			}
			flavorID, _ := cmd.Flags().GetString("flavor")
			if flavorID == "" {
				return fmt.Errorf("either --flavor, --confirm or --revert is required")
			}
			return server.Resize(&compute.Flavor{ID: flavorID})
		},
	}
	cmd.Flags().String("flavor", "", "Target flavor ID or URL")
	cmd.Flags().Bool("confirm", false, "Confirm a pending resize")
	cmd.Flags().Bool("revert", false, "Revert a pending resize")
	return cmd
}

func ipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ips <id>",
		Short: "List a server's addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := getService(cmd)
			if err != nil {
				return err
			}
			server, err := service.ServerFromID(args[0])
			if err != nil {
				return err
			}
			network, _ := cmd.Flags().GetString("network")
			addresses, err := server.ListAddresses(network)
			if err != nil {
				return err
			}
			for networkName, list := range addresses {
				for _, address := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tv%d\n", networkName, address.Addr, address.Version)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("network", "", "Restrict to one network")
	return cmd
}
