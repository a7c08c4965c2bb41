package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/storefront/config"
)

const compact = "compact"

type topicSpec struct {
	partitions        int32
	replicationFactor int16
	minISR            string
}

func parseFlags() topicSpec {
	_ = pflag.String("config", "", "config file")
	partitions := pflag.Int32P("partitions", "p", 3, "catalog topic partitions")
	replicas := pflag.Int16P("replication-factor", "r", 3, "catalog topic replication factor")
	minISR := pflag.String("min-insync-replicas", "1", "catalog topic min.insync.replicas")
	pflag.Parse()
	return topicSpec{*partitions, *replicas, *minISR}
}

func main() {
	sigCtx, closeApp := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer closeApp()

	spec := parseFlags()
	cfg := config.Load()

	cl := createClient(cfg.Catalog.SeedBrokers)
	defer cl.Close()

	printStart(cfg.Catalog.Topic)
	defer printComplete(time.Now())

	// the catalog view reads the latest value per product id
	err := makeTopics(sigCtx, cl, spec, compact, cfg.Catalog.Topic)
	if err != nil {
		printFail(err)
		return
	}
}

func createClient(seedBrokers []string) *kadm.Client {
	cl, err := kadm.NewOptClient(
		kgo.SeedBrokers(seedBrokers...),
		kgo.WithLogger(kgo.BasicLogger(os.Stderr, kgo.LogLevelWarn, nil)),
	)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func makeTopics(
	ctx context.Context,
	cl *kadm.Client,
	spec topicSpec,
	cleanupPolicy string,
	topics ...string,
) error {
	config := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &spec.minISR,
	}

	responses, err := cl.CreateTopics(
		ctx,
		spec.partitions,
		spec.replicationFactor,
		config,
		topics...,
	)

	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		err := res.Err
		if err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printStart(topics ...string) {
	fmt.Println("initializing topics...")
	for _, t := range topics {
		fmt.Printf("\t- %q\n", t)
	}
	fmt.Println()
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
