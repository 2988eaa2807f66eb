package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig_Statistical(t *testing.T) {
	p, err := FromConfig(Config{Kind: KindStatistical})
	require.NoError(t, err)
	assert.Equal(t, KindStatistical, p.Name())
}

func TestFromConfig_Managed(t *testing.T) {
	p, err := FromConfig(Config{
		Kind:    KindManaged,
		Service: newFakeService(),
		Objects: newFakeObjects(),
	})
	require.NoError(t, err)
	assert.Equal(t, KindManaged, p.Name())
}

func TestFromConfig_ManagedMissingCollaborators(t *testing.T) {
	_, err := FromConfig(Config{Kind: KindManaged, Objects: newFakeObjects()})
	assert.ErrorIs(t, err, ErrMissingServiceClient)

	_, err = FromConfig(Config{Kind: KindManaged, Service: newFakeService()})
	assert.ErrorIs(t, err, ErrMissingObjectStore)
}

func TestFromConfig_UnknownKind(t *testing.T) {
	_, err := FromConfig(Config{Kind: "oracle"})
	assert.ErrorIs(t, err, ErrUnknownProviderKind)
}
