// Package display provides output formatting and display functions for meridianctl.
//
// This package handles all user-facing output formatting including table and
// JSON output for brokers, topics, ACL bindings, and configuration entries.
// It provides consistent formatting across all meridianctl commands with
// support for verbose mode and different output formats.
//
// The display functions handle:
// - Broker membership tables with controller markers and discovery times
// - Topic listings and per-partition layout tables
// - ACL binding tables shared by listing and deletion output
// - Configuration entry tables with default and read-only markers
// - Consistent table formatting using text/tabwriter
// - JSON output with proper indentation and error handling
//
// All display functions respect global configuration for output format and
// verbosity while maintaining clean separation from business logic.
package display

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/meridian-dev/meridian/cmd/meridianctl/config"
	"github.com/meridian-dev/meridian/internal/admin"
	"github.com/meridian-dev/meridian/internal/logging"
)

// BrokerRow is one broker in the listing, shaped for both table and JSON
// output.
type BrokerRow struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Controller bool      `json:"controller"`
	Discovered time.Time `json:"discovered"`
}

type topicRow struct {
	Name     string `json:"name"`
	Internal bool   `json:"internal"`
}

type partitionRow struct {
	ID       int32    `json:"id"`
	Leader   string   `json:"leader"`
	Replicas []string `json:"replicas"`
}

type topicDetail struct {
	Name       string         `json:"name"`
	Internal   bool           `json:"internal"`
	Partitions []partitionRow `json:"partitions"`
}

type aclRow struct {
	Principal    string `json:"principal"`
	Host         string `json:"host"`
	ResourceType string `json:"resource_type"`
	ResourceName string `json:"resource_name"`
	Operation    string `json:"operation"`
	Permission   string `json:"permission"`
}

type configEntryRow struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Default  bool   `json:"default"`
	ReadOnly bool   `json:"read_only"`
}

type resourceConfigDoc struct {
	ResourceType string           `json:"resource_type"`
	ResourceName string           `json:"resource_name"`
	Entries      []configEntryRow `json:"entries"`
}

// encodeJSON writes v to stdout as indented JSON.
func encodeJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Println("Error encoding JSON output")
	}
}

// DisplayBrokers displays cluster broker membership in tabular or JSON
// format with controller annotation and humanized discovery times.
func DisplayBrokers(brokers []BrokerRow) {
	if len(brokers) == 0 {
		if config.Global.Output == "json" {
			fmt.Println("[]")
		} else {
			fmt.Println("No cluster brokers found")
		}
		return
	}

	if config.Global.Output == "json" {
		encodeJSON(brokers)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if config.Global.Verbose {
		fmt.Fprintln(w, "ID\tNAME\tADDRESS\tCONTROLLER\tDISCOVERED")
	} else {
		fmt.Fprintln(w, "ID\tADDRESS\tCONTROLLER\tDISCOVERED")
	}

	for _, broker := range brokers {
		id := broker.ID
		controller := "false"
		if broker.Controller {
			id = id + "*"
			controller = "true"
		}

		discovered := "unknown"
		if !broker.Discovered.IsZero() {
			discovered = humanize.Time(broker.Discovered)
		}

		if config.Global.Verbose {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				id, broker.Name, broker.Address, controller, discovered)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				id, broker.Address, controller, discovered)
		}
	}
}

// DisplayTopicListings displays topic names in tabular or JSON format.
// Verbose mode adds the internal marker column.
func DisplayTopicListings(listings []admin.TopicListing) {
	if len(listings) == 0 {
		if config.Global.Output == "json" {
			fmt.Println("[]")
		} else {
			fmt.Println("No topics found")
		}
		return
	}

	if config.Global.Output == "json" {
		rows := make([]topicRow, 0, len(listings))
		for _, l := range listings {
			rows = append(rows, topicRow{Name: l.Name, Internal: l.Internal})
		}
		encodeJSON(rows)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if config.Global.Verbose {
		fmt.Fprintln(w, "NAME\tINTERNAL")
		for _, l := range listings {
			fmt.Fprintf(w, "%s\t%t\n", l.Name, l.Internal)
		}
	} else {
		fmt.Fprintln(w, "NAME")
		for _, l := range listings {
			fmt.Fprintf(w, "%s\n", l.Name)
		}
	}
}

// DisplayTopicDescriptions displays partition layouts for the requested
// topics in request order.
func DisplayTopicDescriptions(order []string, descriptions map[string]admin.TopicDescription) {
	if config.Global.Output == "json" {
		docs := make([]topicDetail, 0, len(order))
		for _, name := range order {
			desc, ok := descriptions[name]
			if !ok {
				continue
			}
			doc := topicDetail{Name: desc.Name, Internal: desc.Internal}
			for _, p := range desc.Partitions {
				doc.Partitions = append(doc.Partitions, partitionRow{
					ID:       p.ID,
					Leader:   p.LeaderID,
					Replicas: p.Replicas,
				})
			}
			docs = append(docs, doc)
		}
		encodeJSON(docs)
		return
	}

	first := true
	for _, name := range order {
		desc, ok := descriptions[name]
		if !ok {
			continue
		}
		if !first {
			fmt.Println()
		}
		first = false

		fmt.Printf("Topic: %s\n", desc.Name)
		fmt.Printf("Internal: %t\n", desc.Internal)
		fmt.Printf("Partitions: %d\n", len(desc.Partitions))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PARTITION\tLEADER\tREPLICAS")
		for _, p := range desc.Partitions {
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.LeaderID, strings.Join(p.Replicas, ","))
		}
		w.Flush()
	}
}

// DisplayACLBindings displays ACL bindings in tabular or JSON format. Used
// by both listing and deletion output, which report the same shape.
func DisplayACLBindings(bindings []admin.ACLBinding) {
	if len(bindings) == 0 {
		if config.Global.Output == "json" {
			fmt.Println("[]")
		} else {
			fmt.Println("No ACL bindings found")
		}
		return
	}

	if config.Global.Output == "json" {
		rows := make([]aclRow, 0, len(bindings))
		for _, b := range bindings {
			rows = append(rows, aclRow{
				Principal:    b.Principal,
				Host:         b.Host,
				ResourceType: string(b.Resource.Type),
				ResourceName: b.Resource.Name,
				Operation:    string(b.Operation),
				Permission:   string(b.Permission),
			})
		}
		encodeJSON(rows)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "PRINCIPAL\tHOST\tRESOURCE\tOPERATION\tPERMISSION")
	for _, b := range bindings {
		fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\t%s\n",
			b.Principal, b.Host, b.Resource.Type, b.Resource.Name,
			b.Operation, b.Permission)
	}
}

// DisplayResourceConfig displays one resource's effective configuration in
// tabular or JSON format, with per-entry default and read-only markers.
func DisplayResourceConfig(resource admin.ConfigResource, cfg admin.ResourceConfig) {
	if config.Global.Output == "json" {
		doc := resourceConfigDoc{
			ResourceType: string(resource.Type),
			ResourceName: resource.Name,
			Entries:      make([]configEntryRow, 0, len(cfg.Entries)),
		}
		for _, e := range cfg.Entries {
			doc.Entries = append(doc.Entries, configEntryRow{
				Key:      e.Name,
				Value:    e.Value,
				Default:  e.Default,
				ReadOnly: e.ReadOnly,
			})
		}
		encodeJSON(doc)
		return
	}

	if len(cfg.Entries) == 0 {
		fmt.Printf("No config entries found for %s\n", resource)
		return
	}

	fmt.Printf("Configuration for %s\n", resource)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE\tREAD-ONLY")
	for _, e := range cfg.Entries {
		source := "override"
		if e.Default {
			source = "default"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", e.Name, e.Value, source, e.ReadOnly)
	}
}
