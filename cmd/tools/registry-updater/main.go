// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"credit-risk-dashboard/pkg/registry"
)

var registryPath string

func main() {
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{updateCmd, validateCmd, listCmd} {
		fs.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	}

	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, description, timeout)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			fmt.Printf("Failed to load registry: %v\n", err)
			os.Exit(1)
		}
		if err := reg.Validate(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "list":
		_ = listCmd.Parse(os.Args[2:])
		if err := listActivities(); err != nil {
			fmt.Printf("Error listing activities: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func updateActivity(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.SetField(id, field, value); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("update leaves registry invalid: %w", err)
	}
	return registry.Save(reg, registryPath)
}

func listActivities() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK TYPE\tSTATUS\tVERSION\tTIMEOUT\tERROR CODES")
	for _, a := range reg.Activities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", a.TaskType, a.ImplementationStatus, a.Version, a.Timeout, a.ErrorCodes)
	}
	return w.Flush()
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  update   Update an existing activity's field
  validate Validate the registry file
  list     List registered activities
  help     Show this help message

Examples:
  registry-updater update -id predict-credit-risk -field status -value verified
  registry-updater validate -path configs/activity-registry.json
  registry-updater list

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
