package submit

import (
	"context"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/candy-drop/pkg/metrics"
	"github.com/code-payments/candy-drop/pkg/retry"
	"github.com/code-payments/candy-drop/pkg/retry/backoff"
	"github.com/code-payments/candy-drop/pkg/solana"
)

const (
	metricsStructName = "submit.submitter"
)

// Submitter sends the batches of a mint attempt to the network.
type Submitter interface {
	// Submit builds every non-empty batch against one recent blockhash, has
	// the wallet approve them together and then submits them in order,
	// confirming each before the next is sent. Signatures are returned for
	// confirmed batches only.
	//
	// Cancelling ctx before the first batch is submitted aborts without
	// effect. Once it is submitted, the remaining batches are still sent.
	Submit(ctx context.Context, wallet Wallet, batches []Batch) ([]solana.Signature, error)
}

type rpcSubmitter struct {
	log  *logrus.Entry
	conf *conf
	sc   solana.Client
}

func NewRPCSubmitter(sc solana.Client, configProvider ConfigProvider) Submitter {
	return &rpcSubmitter{
		log:  logrus.StandardLogger().WithField("type", "submit/submitter"),
		conf: configProvider(),
		sc:   sc,
	}
}

type pendingBatch struct {
	index int
	txn   *solana.Transaction
}

func (s *rpcSubmitter) Submit(ctx context.Context, wallet Wallet, batches []Batch) ([]solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Submit")
	defer tracer.End()

	log := s.log.WithFields(logrus.Fields{
		"method": "Submit",
		"payer":  base58.Encode(wallet.PublicKey()),
	})

	sigs, err := s.submit(ctx, log, wallet, batches)
	if err != nil {
		tracer.OnError(err)
	}
	tracer.AddAttribute("confirmed", len(sigs))
	return sigs, err
}

func (s *rpcSubmitter) submit(ctx context.Context, log *logrus.Entry, wallet Wallet, batches []Batch) ([]solana.Signature, error) {
	commitment, err := solana.CommitmentFromString(s.conf.commitment.Get(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "invalid commitment config")
	}

	var pending []pendingBatch
	for i, batch := range batches {
		if batch.IsEmpty() {
			continue
		}

		txn := solana.NewTransaction(wallet.PublicKey(), batch.Instructions...)
		if size := len(txn.Marshal()); size > solana.MaxTransactionSize {
			return nil, &SubmissionError{BatchIndex: i, Err: errors.Wrapf(ErrTransactionTooLarge, "%d bytes", size)}
		}
		pending = append(pending, pendingBatch{index: i, txn: &txn})
	}
	if len(pending) == 0 {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, &SubmissionError{BatchIndex: pending[0].index, Err: err}
	}

	bh, err := s.sc.GetLatestBlockhash()
	if err != nil {
		return nil, &SubmissionError{BatchIndex: pending[0].index, Err: errors.Wrap(err, "error getting latest blockhash")}
	}

	txns := make([]*solana.Transaction, len(pending))
	for i, p := range pending {
		p.txn.SetBlockhash(bh)
		if err := p.txn.Sign(batches[p.index].Signers...); err != nil {
			return nil, &SubmissionError{BatchIndex: p.index, Err: errors.Wrap(err, "error signing with ephemeral signers")}
		}
		txns[i] = p.txn
	}

	if err := wallet.SignTransactions(ctx, txns); err != nil {
		return nil, &SubmissionError{BatchIndex: pending[0].index, Err: errors.Wrap(err, "wallet rejected transactions")}
	}
	for _, p := range pending {
		if !p.txn.IsSigned() {
			return nil, &SubmissionError{BatchIndex: p.index, Err: ErrUnsignedTransaction}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &SubmissionError{BatchIndex: pending[0].index, Err: err}
	}

	var sigs []solana.Signature
	for i, p := range pending {
		submitCtx := ctx
		if i > 0 {
			// The first batch is on chain, follow ups must not be abandoned
			submitCtx = context.WithoutCancel(ctx)
		}

		sig, err := s.submitAndConfirm(submitCtx, commitment, p.txn)
		batchLog := log.WithFields(logrus.Fields{
			"batch":     p.index,
			"signature": base58.Encode(sig[:]),
		})
		if err != nil {
			batchLog.WithError(err).Warn("batch failed")
			return sigs, &SubmissionError{BatchIndex: p.index, Signatures: sigs, Err: err}
		}

		batchLog.Debug("batch confirmed")
		sigs = append(sigs, sig)
	}

	return sigs, nil
}

func (s *rpcSubmitter) submitAndConfirm(ctx context.Context, commitment solana.Commitment, txn *solana.Transaction) (solana.Signature, error) {
	sig, err := s.sc.SubmitTransaction(*txn, commitment)
	if err != nil {
		return sig, errors.Wrap(err, "error submitting transaction")
	}

	confirmBackoff := s.conf.confirmBackoff.Get(ctx)

	var status *solana.SignatureStatus
	_, err = retry.Retry(
		func() error {
			status, err = s.sc.GetSignatureStatus(sig, commitment)
			return err
		},
		retry.Context(ctx),
		retry.RetriableErrors(solana.ErrSignatureNotFound, solana.ErrConfirmationTimeout),
		retry.Limit(uint(s.conf.confirmAttempts.Get(ctx))),
		retry.Backoff(backoff.Constant(confirmBackoff), confirmBackoff),
	)
	if err != nil {
		return sig, errors.Wrap(err, "error confirming transaction")
	}

	if status.ErrorResult != nil {
		return sig, errors.Wrap(status.ErrorResult, "transaction failed")
	}
	return sig, nil
}
