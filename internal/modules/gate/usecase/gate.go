package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shadowgate/internal/modules/gate/domain"
	"shadowgate/internal/modules/gate/dto"
	gatein "shadowgate/internal/modules/gate/port/in"
	"shadowgate/internal/modules/gate/service"
	apperrors "shadowgate/internal/platform/errors"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) gatein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.GateOutput, error) {
	items, err := i.svc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(items), nil
}

func (i *Interactor) Get(ctx context.Context, ref string) (dto.GateOutput, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return dto.GateOutput{}, fmt.Errorf("%w: gate reference is required", apperrors.ErrInvalidInput)
	}
	gates, err := i.List(ctx)
	if err != nil {
		return dto.GateOutput{}, err
	}
	if n, convErr := strconv.Atoi(ref); convErr == nil {
		if n < 1 || n > len(gates) {
			return dto.GateOutput{}, fmt.Errorf("%w: gate #%d (catalog has %d)", apperrors.ErrNotFound, n, len(gates))
		}
		return gates[n-1], nil
	}
	for _, g := range gates {
		if g.ID == ref {
			return g, nil
		}
	}
	return dto.GateOutput{}, fmt.Errorf("%w: gate %q", apperrors.ErrNotFound, ref)
}

func (i *Interactor) Watch(ctx context.Context, onChange func([]dto.GateOutput, error)) error {
	return i.svc.Watch(ctx, func(items []domain.Descriptor, err error) {
		if err != nil {
			onChange(nil, err)
			return
		}
		onChange(toOutputs(items), nil)
	})
}

func toOutputs(items []domain.Descriptor) []dto.GateOutput {
	out := make([]dto.GateOutput, 0, len(items))
	for idx, d := range items {
		out = append(out, dto.GateOutput{
			Index:            idx + 1,
			ID:               d.ID,
			Name:             d.Name,
			Rank:             string(d.Rank),
			ExamLevel:        d.ExamLevel,
			SourcePath:       d.SourcePath,
			HasGradingScript: d.HasGradingScript,
			HasSubject:       d.HasSubject,
			Command:          d.Command,
			XPReward:         d.XPReward,
			Runnable:         d.Runnable(),
		})
	}
	return out
}
