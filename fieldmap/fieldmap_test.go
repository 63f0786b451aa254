// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fieldmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/cert/fieldmap"
)

func TestTableLookupBothDirections(t *testing.T) {
	require := require.New(t)

	long := [16]byte{0x01}
	table, err := fieldmap.NewTable([]fieldmap.Mapping{
		{LongCode: long, ShortCode: 0x1000, Type: fieldmap.UUID},
	})
	require.NoError(err)

	m, ok := table.ByLongCode(long)
	require.True(ok)
	require.Equal(uint16(0x1000), m.ShortCode)

	m, ok = table.ByShortCode(0x1000)
	require.True(ok)
	require.Equal(long, m.LongCode)

	short, ok := table.ShortCodeOf(long)
	require.True(ok)
	require.Equal(uint16(0x1000), short)
}

func TestNewTableRejectsDuplicateCodes(t *testing.T) {
	require := require.New(t)

	long := [16]byte{0x01}
	_, err := fieldmap.NewTable([]fieldmap.Mapping{
		{LongCode: long, ShortCode: 0x1000, Type: fieldmap.String},
		{LongCode: long, ShortCode: 0x2000, Type: fieldmap.String},
	})
	require.Error(err)

	other := [16]byte{0x02}
	_, err = fieldmap.NewTable([]fieldmap.Mapping{
		{LongCode: long, ShortCode: 0x1000, Type: fieldmap.String},
		{LongCode: other, ShortCode: 0x1000, Type: fieldmap.String},
	})
	require.Error(err)
}
