package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"persona/internal/session/device"
	"persona/internal/session/models"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

func (s *ServiceSuite) TestStart_SavesInProgressSession() {
	wallet, _ := id.ParseWalletAddress("0x1234567890abcdef1234567890abcdef12345678")

	var saved models.VerificationSession
	s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, session models.VerificationSession) error {
			saved = session
			return nil
		})

	userAgent := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	sessionID, err := s.service.Start(context.Background(), id.ProviderGoogle, wallet, userAgent)

	s.Require().NoError(err)
	s.Equal(sessionID, saved.ID)
	s.Equal(models.StatusInProgress, saved.Status)
	s.Equal(id.ProviderGoogle, saved.Provider)
	s.False(saved.StartedAt.IsZero())
	s.NotEmpty(saved.Device)
	s.Equal(device.Fingerprint(userAgent), saved.DeviceID)
}

func (s *ServiceSuite) TestStart_RequiresProviderAndWallet() {
	wallet, _ := id.ParseWalletAddress("0x1234567890abcdef1234567890abcdef12345678")

	_, err := s.service.Start(context.Background(), "", wallet, "")
	s.Require().Error(err)

	_, err = s.service.Start(context.Background(), id.ProviderGoogle, "", "")
	s.Require().Error(err)
}

func (s *ServiceSuite) TestPoll_TransportErrorYieldsNil() {
	sessionID := id.NewSessionID()
	s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
		Return(nil, errors.New("connection refused"))

	session, err := s.service.Poll(context.Background(), sessionID, id.ProviderGoogle)

	s.NoError(err)
	s.Nil(session)
}

func (s *ServiceSuite) TestAwaitTerminal_VerifiedPersistsExactlyOnce() {
	sessionID := id.NewSessionID()
	wallet, _ := id.ParseWalletAddress("0x1234567890abcdef1234567890abcdef12345678")
	verified := s.newVerifiedSession(sessionID)

	s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
		Return(verified, nil)
	s.mockStore.EXPECT().ApplyOutcome(gomock.Any(), sessionID, gomock.Any()).
		Return(true, nil)
	s.mockStore.EXPECT().Get(gomock.Any(), sessionID).
		Return(&models.VerificationSession{ID: sessionID, Wallet: wallet}, nil)
	s.mockSink.EXPECT().SaveFromResult(gomock.Any(), wallet, sessionID, *verified.Result).
		Return(nil).Times(1)

	result, err := s.service.AwaitTerminal(context.Background(), sessionID, id.ProviderGoogle, fastAwait(time.Second))

	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.Equal(uint64(10), result.Score)
}

func (s *ServiceSuite) TestAwaitTerminal_DuplicateTerminalSkipsSink() {
	sessionID := id.NewSessionID()
	verified := s.newVerifiedSession(sessionID)

	s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
		Return(verified, nil)
	// Store reports the terminal transition already applied: no sink call.
	s.mockStore.EXPECT().ApplyOutcome(gomock.Any(), sessionID, gomock.Any()).
		Return(false, nil)

	result, err := s.service.AwaitTerminal(context.Background(), sessionID, id.ProviderGoogle, fastAwait(time.Second))

	s.Require().NoError(err)
	s.NotNil(result)
}

func (s *ServiceSuite) TestAwaitTerminal_FailedIsSessionFailed() {
	sessionID := id.NewSessionID()
	failed := &models.VerificationSession{
		ID:       sessionID,
		Provider: id.ProviderGoogle,
		Status:   models.StatusFailed,
	}

	s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
		Return(failed, nil)

	_, err := s.service.AwaitTerminal(context.Background(), sessionID, id.ProviderGoogle, fastAwait(time.Second))

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSessionFailed))
}

func (s *ServiceSuite) TestAwaitTerminal_TimeoutIsSessionTimeout() {
	sessionID := id.NewSessionID()
	inProgress := &models.VerificationSession{
		ID:       sessionID,
		Provider: id.ProviderGoogle,
		Status:   models.StatusInProgress,
	}

	s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
		Return(inProgress, nil).AnyTimes()

	_, err := s.service.AwaitTerminal(context.Background(), sessionID, id.ProviderGoogle, fastAwait(30*time.Millisecond))

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSessionTimeout))
	s.False(dErrors.HasCode(err, dErrors.CodeSessionFailed))
}

func (s *ServiceSuite) TestAwaitTerminal_TransportErrorsAreAbsorbed() {
	sessionID := id.NewSessionID()
	wallet, _ := id.ParseWalletAddress("0x1234567890abcdef1234567890abcdef12345678")
	verified := s.newVerifiedSession(sessionID)

	gomock.InOrder(
		s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
			Return(nil, errors.New("connection refused")),
		s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
			Return(verified, nil),
	)
	s.mockStore.EXPECT().ApplyOutcome(gomock.Any(), sessionID, gomock.Any()).
		Return(true, nil)
	s.mockStore.EXPECT().Get(gomock.Any(), sessionID).
		Return(&models.VerificationSession{ID: sessionID, Wallet: wallet}, nil)
	s.mockSink.EXPECT().SaveFromResult(gomock.Any(), wallet, sessionID, gomock.Any()).
		Return(nil)

	result, err := s.service.AwaitTerminal(context.Background(), sessionID, id.ProviderGoogle, fastAwait(time.Second))

	s.Require().NoError(err)
	s.NotNil(result)
}

func (s *ServiceSuite) TestAwaitTerminal_CancellationStopsPolling() {
	sessionID := id.NewSessionID()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.mockStatus.EXPECT().Status(gomock.Any(), sessionID, id.ProviderGoogle).
		Return(nil, errors.New("unreachable")).AnyTimes()

	_, err := s.service.AwaitTerminal(ctx, sessionID, id.ProviderGoogle, fastAwait(time.Second))

	s.Require().Error(err)
	s.False(dErrors.HasCode(err, dErrors.CodeSessionTimeout))
}

func (s *ServiceSuite) TestComplete_RejectsNonTerminalOutcome() {
	err := s.service.Complete(context.Background(), id.NewSessionID(), models.PollOutcome{
		Status: models.StatusInProgress,
	})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestComplete_FailedOutcomeApplied() {
	sessionID := id.NewSessionID()
	s.mockStore.EXPECT().ApplyOutcome(gomock.Any(), sessionID, gomock.Any()).
		Return(true, nil)

	err := s.service.Complete(context.Background(), sessionID, models.PollOutcome{
		Status: models.StatusFailed,
	})

	s.NoError(err)
}

func (s *ServiceSuite) TestComplete_VerifiedOutcomeFlowsToSink() {
	sessionID := id.NewSessionID()
	wallet, _ := id.ParseWalletAddress("0x1234567890abcdef1234567890abcdef12345678")
	result := &models.VerificationResult{
		Provider:   id.ProviderGitHub,
		Score:      15,
		MaxScore:   20,
		VerifiedAt: time.Now().UTC(),
	}

	s.mockStore.EXPECT().ApplyOutcome(gomock.Any(), sessionID, gomock.Any()).
		Return(true, nil)
	s.mockStore.EXPECT().Get(gomock.Any(), sessionID).
		Return(&models.VerificationSession{ID: sessionID, Wallet: wallet}, nil)
	s.mockSink.EXPECT().SaveFromResult(gomock.Any(), wallet, sessionID, *result).
		Return(nil)

	err := s.service.Complete(context.Background(), sessionID, models.PollOutcome{
		Status: models.StatusVerified,
		Result: result,
	})

	s.NoError(err)
}
