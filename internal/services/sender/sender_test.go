package sender

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/lib/smtp"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect(ctx context.Context) (smtp.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

type bufferWriter struct {
	strings.Builder
	closed bool
}

func (b *bufferWriter) Close() error {
	b.closed = true
	return nil
}

const (
	trialBody  = `{"kind":"trial_expired","gym_id":"g1","gym_name":"Iron","name":"Owner","email":"owner@gym.test","due_at":"2024-03-01T12:00:00Z","renew_path":"/renew/g1"}`
	memberBody = `{"kind":"membership_due","gym_id":"g1","gym_name":"Iron","member_id":"m1","name":"Anna","email":"anna@gym.test","due_at":"2024-03-01T00:00:00Z","renew_path":"/renew/g1"}`
)

func TestService_SendTrialExpired(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	w := &bufferWriter{}

	transport.On("GetSMTPUser").Return("noreply@gymhub.test")
	transport.On("Connect", mock.Anything).Return(client, nil).Once()
	client.On("Mail", "noreply@gymhub.test").Return(nil).Once()
	client.On("Rcpt", "owner@gym.test").Return(nil).Once()
	client.On("Data").Return(w, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := NewService(transport, "https://gymhub.test/", sl.NewDiscard())
	require.NoError(t, svc.SendTrialExpired(context.Background(), []byte(trialBody)))

	assert.True(t, w.closed)
	assert.Contains(t, w.String(), "To: owner@gym.test")
	assert.Contains(t, w.String(), "https://gymhub.test/renew/g1")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestService_SendMembershipDue(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(*MockTransport, *MockSMTPClient, *bufferWriter)
		wantErr    string
	}{
		{
			name: "success",
			body: memberBody,
			setupMocks: func(tr *MockTransport, c *MockSMTPClient, w *bufferWriter) {
				tr.On("GetSMTPUser").Return("noreply@gymhub.test")
				tr.On("Connect", mock.Anything).Return(c, nil).Once()
				c.On("Mail", "noreply@gymhub.test").Return(nil).Once()
				c.On("Rcpt", "anna@gym.test").Return(nil).Once()
				c.On("Data").Return(w, nil).Once()
				c.On("Quit").Return(nil).Once()
				c.On("Close").Return(nil).Once()
			},
		},
		{
			name:       "invalid JSON",
			body:       `invalid json`,
			setupMocks: func(*MockTransport, *MockSMTPClient, *bufferWriter) {},
			wantErr:    "error unmarshalling message",
		},
		{
			name:       "missing recipient",
			body:       `{"gym_id":"g1"}`,
			setupMocks: func(*MockTransport, *MockSMTPClient, *bufferWriter) {},
			wantErr:    "no recipient",
		},
		{
			name: "connection error",
			body: memberBody,
			setupMocks: func(tr *MockTransport, _ *MockSMTPClient, _ *bufferWriter) {
				tr.On("GetSMTPUser").Return("noreply@gymhub.test")
				tr.On("Connect", mock.Anything).Return(nil, errors.New("connection error")).Once()
			},
			wantErr: "connection error",
		},
		{
			name: "recipient rejected",
			body: memberBody,
			setupMocks: func(tr *MockTransport, c *MockSMTPClient, _ *bufferWriter) {
				tr.On("GetSMTPUser").Return("noreply@gymhub.test")
				tr.On("Connect", mock.Anything).Return(c, nil).Once()
				c.On("Mail", "noreply@gymhub.test").Return(nil).Once()
				c.On("Rcpt", "anna@gym.test").Return(errors.New("550 no such user")).Once()
				c.On("Close").Return(nil).Once()
			},
			wantErr: "550 no such user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			client := new(MockSMTPClient)
			w := &bufferWriter{}
			tt.setupMocks(transport, client, w)

			svc := NewService(transport, "https://gymhub.test", sl.NewDiscard())
			err := svc.SendMembershipDue(context.Background(), []byte(tt.body))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Contains(t, w.String(), "https://gymhub.test/renew/g1")
			}
			transport.AssertExpectations(t)
			client.AssertExpectations(t)
		})
	}
}

func TestService_Handler(t *testing.T) {
	svc := NewService(new(MockTransport), "", sl.NewDiscard())

	for _, kind := range []string{models.NotificationTrialExpired, models.NotificationMembershipDue} {
		h, err := svc.Handler(kind)
		require.NoError(t, err)
		assert.NotNil(t, h)
	}

	_, err := svc.Handler("upcoming")
	assert.Error(t, err)
}
