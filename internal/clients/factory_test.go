package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithfin/zenith/internal/clients/simulated"
	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/models"
)

func TestFactoryCreatesRealClients(t *testing.T) {
	factory := NewFactory(common.NewDefaultConfig(), common.NewSilentLogger())

	for _, broker := range models.AllBrokers {
		client, err := factory.Create(broker)
		require.NoError(t, err, broker)
		assert.Equal(t, broker, client.Broker())
	}
}

func TestFactoryUnknownBroker(t *testing.T) {
	factory := NewFactory(common.NewDefaultConfig(), common.NewSilentLogger())

	_, err := factory.Create(models.BrokerID("zerodha"))
	assert.Error(t, err)
}

func TestFactorySimulatedOverride(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Clients.UseSimulated = true
	factory := NewFactory(config, common.NewSilentLogger())

	client, err := factory.Create(models.BrokerUpstox)
	require.NoError(t, err)
	_, ok := client.(*simulated.Client)
	assert.True(t, ok, "simulated mode must serve the in-process client")
	assert.Equal(t, models.BrokerUpstox, client.Broker())
}
