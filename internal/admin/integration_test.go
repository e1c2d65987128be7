package admin

import (
	"errors"
	"testing"
	"time"

	"github.com/meridian-dev/meridian/internal/brokertest"
	"github.com/meridian-dev/meridian/internal/wire"
)

// TestAdminClientEndToEnd drives the public API against a three-broker fake
// cluster over the real HTTP transport: topic lifecycle, ACLs, configs,
// controller handoff, and broker loss.
func TestAdminClientEndToEnd(t *testing.T) {
	cluster := brokertest.NewCluster(3)
	defer cluster.Close()

	view := cluster.View()
	client, err := NewClient(&Config{
		ClientID:       "meridian-e2e",
		View:           view,
		RequestTimeout: 5 * time.Second,
		RetryBackoff:   50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	defer client.Close()

	ctx := testCtx(t)

	// Topic lifecycle through the controller.
	created := client.CreateTopics([]NewTopic{
		{Name: "orders", Partitions: 3, ReplicationFactor: 2},
		{Name: "audit", Partitions: 1, ReplicationFactor: 1},
	})
	if _, err := created.All().Get(ctx); err != nil {
		t.Fatalf("create topics failed: %v", err)
	}

	dup := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})
	_, err = dup.Topic("orders").Get(ctx)
	var werr *wire.Error
	if !errors.As(err, &werr) || werr.Code != wire.ErrTopicAlreadyExists {
		t.Fatalf("duplicate create error = %v, want TOPIC_ALREADY_EXISTS", err)
	}

	names, err := client.ListTopics().Names().Get(ctx)
	if err != nil {
		t.Fatalf("list topics failed: %v", err)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	for _, want := range []string{"orders", "audit", "__cluster_metadata"} {
		if !seen[want] {
			t.Errorf("list is missing topic %q: %v", want, names)
		}
	}

	listings, err := client.ListTopics().Listings().Get(ctx)
	if err != nil {
		t.Fatalf("list topics failed: %v", err)
	}
	for _, listing := range listings {
		if internal := listing.Name == "__cluster_metadata"; listing.Internal != internal {
			t.Errorf("listing %q internal = %v, want %v", listing.Name, listing.Internal, internal)
		}
	}

	desc, err := client.DescribeTopics([]string{"orders"}).Topic("orders").Get(ctx)
	if err != nil {
		t.Fatalf("describe topic failed: %v", err)
	}
	if len(desc.Partitions) != 3 {
		t.Fatalf("orders has %d partitions, want 3", len(desc.Partitions))
	}
	for _, p := range desc.Partitions {
		if p.LeaderID == "" || len(p.Replicas) != 2 {
			t.Errorf("partition %d placement = leader %q replicas %v, want leader and 2 replicas",
				p.ID, p.LeaderID, p.Replicas)
		}
	}

	// ACL round trip on shared cluster state.
	binding := ACLBinding{
		Resource:   Resource{Type: ResourceTypeTopic, Name: "orders"},
		Principal:  "user:argus",
		Host:       "*",
		Operation:  ACLOpWrite,
		Permission: PermissionAllow,
	}
	if _, err := client.CreateACLs([]ACLBinding{binding}).All().Get(ctx); err != nil {
		t.Fatalf("create acl failed: %v", err)
	}

	found, err := client.DescribeACLs(ACLBindingFilter{Principal: "user:argus"}).Bindings().Get(ctx)
	if err != nil {
		t.Fatalf("describe acls failed: %v", err)
	}
	if len(found) != 1 || found[0] != binding {
		t.Fatalf("described acls = %+v, want the created binding", found)
	}

	deleted, err := client.DeleteACLs([]ACLBindingFilter{{Principal: "user:argus"}}).All().Get(ctx)
	if err != nil {
		t.Fatalf("delete acls failed: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != binding {
		t.Fatalf("deleted acls = %+v, want the created binding", deleted)
	}

	if left, err := client.DescribeACLs(ACLBindingFilter{}).Bindings().Get(ctx); err != nil || len(left) != 0 {
		t.Fatalf("acls after delete = (%+v, %v), want none", left, err)
	}

	// Config describe and alter, broker-pinned and controller-routed.
	brokerRes := ConfigResource{Type: ResourceTypeBroker, Name: "broker-2"}
	topicRes := ConfigResource{Type: ResourceTypeTopic, Name: "orders"}

	configs, err := client.DescribeConfigs([]ConfigResource{brokerRes, topicRes}).All().Get(ctx)
	if err != nil {
		t.Fatalf("describe configs failed: %v", err)
	}
	brokerEntries := configs[brokerRes].Entries
	var sawLogDirs bool
	for _, entry := range brokerEntries {
		if entry.Name == "log.dirs" {
			sawLogDirs = true
			if !entry.ReadOnly || !entry.Default {
				t.Errorf("log.dirs = %+v, want read-only default", entry)
			}
		}
	}
	if !sawLogDirs {
		t.Errorf("broker entries %+v missing log.dirs", brokerEntries)
	}

	alter := client.AlterConfigs([]ConfigAlteration{
		{Resource: topicRes, Entries: map[string]string{"retention.ms": "1000"}},
	})
	if _, err := alter.Resource(topicRes).Get(ctx); err != nil {
		t.Fatalf("alter topic configs failed: %v", err)
	}

	altered, err := client.DescribeConfigs([]ConfigResource{topicRes}).Resource(topicRes).Get(ctx)
	if err != nil {
		t.Fatalf("re-describe configs failed: %v", err)
	}
	var sawRetention bool
	for _, entry := range altered.Entries {
		if entry.Name == "retention.ms" {
			sawRetention = true
			if entry.Value != "1000" || entry.Default {
				t.Errorf("retention.ms = %+v, want overridden value 1000", entry)
			}
		}
	}
	if !sawRetention {
		t.Errorf("topic entries %+v missing retention.ms", altered.Entries)
	}

	// Scripted broker error surfaces as a terminal call failure.
	cluster.Broker(0).InjectError(wire.OpCreateTopic, wire.ErrUnknownServer, "disk on fire")
	flaky := client.CreateTopics([]NewTopic{{Name: "flaky", Partitions: 1, ReplicationFactor: 1}})
	if _, err := flaky.Topic("flaky").Get(ctx); !errors.As(err, &werr) || werr.Code != wire.ErrUnknownServer {
		t.Fatalf("scripted failure = %v, want UNKNOWN_SERVER_ERROR", err)
	}

	// Controller moves; the stale view sends the first attempt to the old
	// controller, whose NOT_CONTROLLER answer keeps the call retrying until
	// fresh metadata lands.
	cluster.PromoteController(1)
	go func() {
		time.Sleep(150 * time.Millisecond)
		view.SetController("broker-2")
	}()

	elected := client.CreateTopics([]NewTopic{{Name: "election", Partitions: 1, ReplicationFactor: 1}})
	if _, err := elected.Topic("election").Get(ctx); err != nil {
		t.Fatalf("create across controller handoff failed: %v", err)
	}
	if n := cluster.Broker(1).RequestCount(wire.OpCreateTopic); n == 0 {
		t.Error("new controller never saw the create request")
	}

	// A dead broker exhausts the retry budget with connection failures.
	cluster.Broker(2).Close()
	dead := client.DescribeConfigs([]ConfigResource{{Type: ResourceTypeBroker, Name: "broker-3"}})
	_, err = dead.Resource(ConfigResource{Type: ResourceTypeBroker, Name: "broker-3"}).Get(ctx)
	var exhausted *RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("dead broker error = %v, want RetriesExhaustedError", err)
	}
	var disc *DisconnectedError
	if !errors.As(err, &disc) || disc.NodeID != "broker-3" {
		t.Errorf("exhaustion cause = %v, want disconnect from broker-3", exhausted.Last)
	}

	// Close fails everything that comes after.
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	post := client.ListTopics()
	if _, err := post.Listings().Get(ctx); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("post-close error = %v, want ErrClientClosed", err)
	}
}
