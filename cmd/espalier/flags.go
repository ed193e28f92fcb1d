package main

import (
	"github.com/spf13/cobra"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/schema"
)

// addScheduleFlags registers the flags shared by every command that computes
// a schedule.
func addScheduleFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("strategy", "s", string(espalier.StrategyTreeDecomposition),
		"Scheduling strategy (sequential, tree-decomposition)")
	cmd.Flags().String("elimination", string(ports.EliminationMinFill),
		"Elimination policy for the decomposer (min-degree, min-fill, order)")
	cmd.Flags().String("supernodes", string(ports.SupernodeFundamental),
		"Bag grouping policy (singleton, fundamental)")
	cmd.Flags().IntSlice("elimination-order", nil,
		"Explicit junction elimination order (with --elimination=order)")
	cmd.Flags().IntSlice("box-order", nil,
		"Explicit box order for the sequential strategy")
}

// scheduleFromFlags loads the diagram document and computes its nested
// schedule according to the command's flags.
func scheduleFromFlags(cmd *cobra.Command, path string) (*schema.Document, *domain.Nested, error) {
	doc, err := schema.Load(path)
	if err != nil {
		return nil, nil, err
	}
	d, err := doc.Diagram()
	if err != nil {
		return nil, nil, err
	}

	strategy, _ := cmd.Flags().GetString("strategy")
	elimination, _ := cmd.Flags().GetString("elimination")
	supernodes, _ := cmd.Flags().GetString("supernodes")
	elimOrder, _ := cmd.Flags().GetIntSlice("elimination-order")
	boxOrder, _ := cmd.Flags().GetIntSlice("box-order")

	opts := []espalier.Option{
		espalier.WithLogger(newLogger(cmd)),
		espalier.WithElimination(ports.EliminationPolicy(elimination)),
		espalier.WithSupernodes(ports.SupernodePolicy(supernodes)),
	}
	if len(elimOrder) > 0 {
		opts = append(opts, espalier.WithEliminationOrder(elimOrder...))
	}
	if len(boxOrder) > 0 {
		order := make([]domain.BoxID, len(boxOrder))
		for i, b := range boxOrder {
			order[i] = domain.BoxID(b)
		}
		opts = append(opts, espalier.WithOrder(order...))
	}

	s, err := espalier.Schedule(d, espalier.Strategy(strategy), opts...)
	if err != nil {
		return nil, nil, err
	}
	n, err := espalier.Nest(s)
	if err != nil {
		return nil, nil, err
	}
	return doc, n, nil
}
