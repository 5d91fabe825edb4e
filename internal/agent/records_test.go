package agent_test

//go:generate mockgen -source=agent.go -destination=mocks/mocks.go -package=mocks Agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"persona/internal/agent"
	"persona/internal/agent/mocks"
	dErrors "persona/pkg/domain-errors"
)

var fastCallOpts = agent.CallOptions{
	Timeout:    200 * time.Millisecond,
	MaxRetries: 1,
	RetryDelay: time.Millisecond,
}

func TestFetchStampRecords_PlaintextCapability(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAgent := mocks.NewMockAgent(ctrl)

	mockAgent.EXPECT().Capabilities().Return(agent.CapabilitySet{
		agent.CapabilityRecordPlaintexts: true,
	})
	mockAgent.EXPECT().RequestRecordPlaintexts(gomock.Any(), "persona_credentials.aleo").Return([]agent.Record{
		{Owner: "aleo1abc", StampID: 1, Points: 100},
		{Owner: "aleo1abc", StampID: 2, Points: 200, Spent: true},
	}, nil)

	records, err := agent.FetchStampRecords(context.Background(), mockAgent, "persona_credentials.aleo", fastCallOpts)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(1), records[0].StampID)
}

func TestFetchStampRecords_DecryptFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAgent := mocks.NewMockAgent(ctrl)

	mockAgent.EXPECT().Capabilities().Return(agent.CapabilitySet{
		agent.CapabilityRecords: true,
		agent.CapabilityDecrypt: true,
	})
	mockAgent.EXPECT().RequestRecords(gomock.Any(), "persona_credentials.aleo").Return([]agent.EncryptedRecord{
		{Owner: "aleo1abc", Ciphertext: "cipher1"},
	}, nil)
	mockAgent.EXPECT().Decrypt(gomock.Any(), "cipher1").
		Return("{ stamp_id: 7u64.private, points: 350u64.private }", nil)

	records, err := agent.FetchStampRecords(context.Background(), mockAgent, "persona_credentials.aleo", fastCallOpts)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(7), records[0].StampID)
	assert.Equal(t, uint64(350), records[0].Points)
	assert.Equal(t, "aleo1abc", records[0].Owner)
}

func TestFetchStampRecords_NoCapablePath(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAgent := mocks.NewMockAgent(ctrl)

	mockAgent.EXPECT().Capabilities().Return(agent.CapabilitySet{
		agent.CapabilityRecords: true, // decrypt missing
	})

	_, err := agent.FetchStampRecords(context.Background(), mockAgent, "persona_credentials.aleo", fastCallOpts)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAgentUnavailable))
}

func TestFetchStampRecords_EmptyIsNotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAgent := mocks.NewMockAgent(ctrl)

	mockAgent.EXPECT().Capabilities().Return(agent.CapabilitySet{
		agent.CapabilityRecordPlaintexts: true,
	})
	mockAgent.EXPECT().RequestRecordPlaintexts(gomock.Any(), gomock.Any()).Return([]agent.Record{}, nil)

	records, err := agent.FetchStampRecords(context.Background(), mockAgent, "persona_credentials.aleo", fastCallOpts)

	require.NoError(t, err)
	assert.Empty(t, records)
}
