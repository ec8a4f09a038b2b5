package models

import "testing"

func TestParseBrokerID(t *testing.T) {
	tests := []struct {
		input   string
		want    BrokerID
		wantErr bool
	}{
		{"upstox", BrokerUpstox, false},
		{"angelone", BrokerAngelOne, false},
		{"fyers", BrokerFyers, false},
		{"zerodha", "", true},
		{"", "", true},
		{"Upstox", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBrokerID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBrokerID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBrokerID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSyncReportMessage(t *testing.T) {
	ok := SyncReport{
		TotalSynced: 5,
		Results: []BrokerSyncResult{
			{Broker: BrokerUpstox, Synced: 3},
			{Broker: BrokerFyers, Synced: 2},
		},
	}
	if got := ok.Message(); got != "Successfully synced 5 holdings" {
		t.Errorf("Message() = %q", got)
	}

	partial := SyncReport{
		TotalSynced: 3,
		Results: []BrokerSyncResult{
			{Broker: BrokerUpstox, Synced: 3},
			{Broker: BrokerAngelOne, Error: "credentials rejected"},
		},
	}
	if got := partial.Message(); got != "Synced 3 holdings; 1 broker(s) failed" {
		t.Errorf("Message() = %q", got)
	}
}

func TestEnsureBrokersBackfillsMissing(t *testing.T) {
	data := &AppData{Brokers: []BrokerConnection{{ID: BrokerUpstox, Name: "Upstox", IsConnected: true}}}
	data.EnsureBrokers()

	if len(data.Brokers) != len(AllBrokers) {
		t.Fatalf("expected %d brokers, got %d", len(AllBrokers), len(data.Brokers))
	}
	if !data.Broker(BrokerUpstox).IsConnected {
		t.Error("existing broker record was replaced")
	}
	if data.Broker(BrokerAngelOne) == nil || data.Broker(BrokerFyers) == nil {
		t.Error("missing brokers were not backfilled")
	}
}
