package documents

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"medshift/models"
	"medshift/utils"
)

// AgreementRenderer produces a durable document reference for a signed
// contract. It is invoked after contract creation, outside the signing
// transaction; the reference is attached to the contract out-of-band.
type AgreementRenderer interface {
	RenderContract(ctx context.Context, c *models.Contract) (string, error)
}

// StubAgreementRenderer derives a stable reference without calling an
// external renderer. The real renderer is an external collaborator; this
// default keeps the pipeline complete in environments without one.
type StubAgreementRenderer struct{}

func (StubAgreementRenderer) RenderContract(_ context.Context, c *models.Contract) (string, error) {
	if c == nil || c.ID == "" {
		return "", fmt.Errorf("documents: cannot render contract without an id")
	}
	sum := sha1.Sum([]byte(c.ID + ":" + c.ShiftDate))
	ref := "agreements/" + hex.EncodeToString(sum[:]) + ".pdf"
	utils.GetLogger().Info("documents: agreement reference issued",
		zap.String("contractId", c.ID), zap.String("ref", ref))
	return ref, nil
}
