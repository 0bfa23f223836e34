package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/Tanmoy095/PharmaTrace/pkg/ownership"
	apiclient "github.com/Tanmoy095/PharmaTrace/services/console-service/client"
	"github.com/Tanmoy095/PharmaTrace/services/console-service/store"
	"github.com/Tanmoy095/PharmaTrace/services/workflow-orchestrator/activities"
)

type ConfirmReceiptSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env      *testsuite.TestWorkflowEnvironment
	api      *fakeAPI
	store    *fakeStore
	producer *fakeProducer
}

func (s *ConfirmReceiptSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.api = &fakeAPI{}
	s.store = &fakeStore{}
	s.producer = &fakeProducer{}
	s.env.RegisterWorkflow(ConfirmReceiptWorkflow)
	s.env.RegisterActivity(&activities.ReceiptActivities{API: s.api, Store: s.store, Producer: s.producer})
}

func (s *ConfirmReceiptSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *ConfirmReceiptSuite) TestHappyPath() {
	s.env.ExecuteWorkflow(ConfirmReceiptWorkflow, receiptInput())

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var receipt store.Receipt
	s.NoError(s.env.GetWorkflowResult(&receipt))
	s.Equal("0xbeef", receipt.TransactionHash)
	s.Equal("0xabc", receipt.Wallet)
	s.Len(s.store.rows, 1)
	s.Equal([]string{receiptInput().AuditID}, s.producer.keys)
}

func (s *ConfirmReceiptSuite) TestNotRecipientStopsBeforeBackend() {
	in := receiptInput()
	in.Wallet = "0xdef"
	s.env.ExecuteWorkflow(ConfirmReceiptWorkflow, in)

	err := s.env.GetWorkflowError()
	s.Error(err)
	s.True(errors.Is(FromWorkflowError(err), ownership.ErrNotRecipient))
	s.Equal(0, s.api.calls)
	s.Empty(s.store.rows)
}

func (s *ConfirmReceiptSuite) TestBackendRejectionIsNotRetried() {
	s.api.err = &apiclient.APIError{Kind: apiclient.ErrBusiness, Status: 200, Message: "Lô hàng đã được nhận"}
	s.env.ExecuteWorkflow(ConfirmReceiptWorkflow, receiptInput())

	err := FromWorkflowError(s.env.GetWorkflowError())
	s.True(errors.Is(err, apiclient.ErrBusiness))
	s.Equal("Lô hàng đã được nhận", apiclient.Message(err))
	s.Equal(1, s.api.calls)
	s.Empty(s.store.rows)
}

func (s *ConfirmReceiptSuite) TestAuditWriteIsRetried() {
	s.store.failN = 2
	s.env.ExecuteWorkflow(ConfirmReceiptWorkflow, receiptInput())

	s.NoError(s.env.GetWorkflowError())
	s.Equal(3, s.store.attempts)
	s.Len(s.store.rows, 1)
	s.Equal(1, s.api.calls)
}

func (s *ConfirmReceiptSuite) TestLostEventDoesNotFailTheReceipt() {
	s.producer.err = errors.New("kafka down")
	s.env.ExecuteWorkflow(ConfirmReceiptWorkflow, receiptInput())

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Len(s.store.rows, 1)
}

func TestConfirmReceiptSuite(t *testing.T) {
	suite.Run(t, new(ConfirmReceiptSuite))
}
