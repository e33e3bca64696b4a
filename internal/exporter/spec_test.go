package exporter

import (
	"context"
	"testing"

	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"github.com/stretchr/testify/require"
)

func TestSpecs(t *testing.T) {
	specs := Specs()
	require.Len(t, specs, 3)

	token := TokenSpec()
	require.Equal(t, contracts.KindToken, token.Contract)
	require.True(t, token.ExportBalances)
	require.True(t, token.Accepts("Transfer"))
	require.True(t, token.Accepts("Approval"))
	require.False(t, token.Accepts("LogAuctionFundsIn"))
	require.False(t, token.Accepts(""))

	converter := ConverterSpec()
	require.Nil(t, converter.Events)
	require.True(t, converter.Accepts("ConvertEthToMet"))
	require.True(t, converter.Accepts("AnythingElse"))
	require.False(t, converter.ExportBalances)

	auction := AuctionSpec()
	require.Equal(t, contracts.KindAuctions, auction.Contract)
	require.True(t, auction.Accepts("LogAuctionFundsIn"))
	require.False(t, auction.Accepts("Transfer"))
}

func TestSpecs_FiltersMatchABI(t *testing.T) {
	for _, spec := range Specs() {
		parsed, err := contracts.ABI(spec.Contract)
		require.NoError(t, err)

		for _, name := range spec.Events {
			_, ok := parsed.Events[name]
			require.True(t, ok, "%s: event %s missing from ABI", spec.Name, name)
		}

		for event, args := range spec.AddressArgs {
			ev, ok := parsed.Events[event]
			require.True(t, ok, "%s: event %s missing from ABI", spec.Name, event)

			for _, arg := range args {
				found := false
				for _, input := range ev.Inputs {
					if input.Name == arg && input.Type.String() == "address" {
						found = true
					}
				}
				require.True(t, found, "%s: %s has no address argument %s", spec.Name, event, arg)
			}
		}
	}
}

func TestSpecByName(t *testing.T) {
	spec, err := SpecByName(config.ExporterConverter)
	require.NoError(t, err)
	require.Equal(t, contracts.KindConverter, spec.Contract)

	_, err = SpecByName("bridge")
	require.ErrorContains(t, err, `unknown exporter "bridge"`)
}

func TestEventID(t *testing.T) {
	require.Equal(t, "3_4_2", EventID(3, 4, 2))
	require.NotEqual(t, EventID(1, 11, 1), EventID(11, 1, 1))
}

func TestCheckpoint_LoadFallsBackToStartBlock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cp := NewCheckpoint(s, config.ExporterToken)
	from, err := cp.Load(ctx, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), from)
	require.Equal(t, uint64(1000), cp.Value())

	found, err := s.FindOne(ctx, store.CollectionValues, "token.bestBlock", &CheckpointDoc{})
	require.NoError(t, err)
	require.False(t, found)
}

func TestCheckpoint_SaveIsMonotonic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cp := NewCheckpoint(s, config.ExporterAuction)
	_, err := cp.Load(ctx, 0)
	require.NoError(t, err)

	saved, err := cp.Save(ctx, 10)
	require.NoError(t, err)
	require.True(t, saved)

	saved, err = cp.Save(ctx, 5)
	require.NoError(t, err)
	require.False(t, saved)

	saved, err = cp.Save(ctx, 10)
	require.NoError(t, err)
	require.False(t, saved)

	reloaded := NewCheckpoint(s, config.ExporterAuction)
	from, err := reloaded.Load(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(10), from)

	var doc CheckpointDoc
	found, err := s.FindOne(ctx, store.CollectionValues, "auction.bestBlock", &doc)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, CheckpointDoc{Key: "auction.bestBlock", Value: 10}, doc)
}

func TestCheckpoint_SaveBelowStartBlockIgnored(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cp := NewCheckpoint(s, config.ExporterToken)
	_, err := cp.Load(ctx, 500)
	require.NoError(t, err)

	saved, err := cp.Save(ctx, 499)
	require.NoError(t, err)
	require.False(t, saved)

	saved, err = cp.Save(ctx, 500)
	require.NoError(t, err)
	require.True(t, saved)
}

func TestListCheckpoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for name, block := range map[string]uint64{config.ExporterToken: 7, config.ExporterConverter: 9} {
		cp := NewCheckpoint(s, name)
		_, err := cp.Load(ctx, 0)
		require.NoError(t, err)
		_, err = cp.Save(ctx, block)
		require.NoError(t, err)
	}
	require.NoError(t, s.Upsert(ctx, store.CollectionValues, "unrelated", map[string]any{"key": "unrelated"}))

	cps, err := ListCheckpoints(ctx, s)
	require.NoError(t, err)
	require.ElementsMatch(t, []CheckpointDoc{
		{Key: "token.bestBlock", Value: 7},
		{Key: "converter.bestBlock", Value: 9},
	}, cps)
}
