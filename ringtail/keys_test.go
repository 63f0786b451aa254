// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ringtail_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/cert/ringtail"
)

func TestGenerateThresholdKeysAndSigner(t *testing.T) {
	require := require.New(t)

	shares, groupKey, err := ringtail.GenerateThresholdKeys(2, 3)
	require.NoError(err)
	require.Len(shares, 3)
	require.NotNil(groupKey)

	for _, share := range shares {
		signer := ringtail.NewThresholdSigner(share)
		require.NotNil(signer)
	}
}
