package app_test

import (
	"testing"

	"github.com/mstrYoda/go-arctest/pkg/arctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mod = `github\.com/Nazarious-ucu/city-weather`

func TestLayeredArchitecture(t *testing.T) {
	arch, err := arctest.New("../../")
	require.NoError(t, err)

	err = arch.ParsePackages()
	require.NoError(t, err, "failed to parse packages")

	domainLayer, err := arctest.NewLayer("domain", `^`+mod+`/internal/models`)
	require.NoError(t, err)

	appLayer, err := arctest.NewLayer("application", `^`+mod+`/internal/(config|favorites)`)
	require.NoError(t, err)

	infraLayer, err := arctest.NewLayer("infrastructure",
		`^`+mod+`/internal/(repository|services)`,
		`^`+mod+`/pkg/logger`,
	)
	require.NoError(t, err)

	userLayer, err := arctest.NewLayer("presentation", `^`+mod+`/internal/handlers`)
	require.NoError(t, err)

	bootLayer, err := arctest.NewLayer("bootstrap", `^`+mod+`/internal/app`)
	require.NoError(t, err)

	layered := arch.NewLayeredArchitecture(domainLayer, appLayer, infraLayer, userLayer, bootLayer)

	require.NoError(t, appLayer.DependsOnLayer(domainLayer))
	require.NoError(t, infraLayer.DependsOnLayer(domainLayer))
	require.NoError(t, userLayer.DependsOnLayer(domainLayer))
	require.NoError(t, userLayer.DependsOnLayer(infraLayer))

	require.NoError(t, bootLayer.DependsOnLayer(domainLayer))
	require.NoError(t, bootLayer.DependsOnLayer(appLayer))
	require.NoError(t, bootLayer.DependsOnLayer(infraLayer))
	require.NoError(t, bootLayer.DependsOnLayer(userLayer))

	violations, err := layered.Check()
	require.NoError(t, err)

	assert.Len(t, violations, 0)

	for _, v := range violations {
		assert.Failf(t, "", "violation: %s", v)
	}
}
