package usecase

import (
	"context"

	"stillness/internal/modules/hooks/domain"
	hooksdto "stillness/internal/modules/hooks/dto"
	hooksin "stillness/internal/modules/hooks/port/in"
	"stillness/internal/modules/hooks/service"
)

type Interactor struct {
	svc *service.HookService
}

func NewInteractor(svc *service.HookService) hooksin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]hooksdto.HookInfo, error) {
	manifests, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]hooksdto.HookInfo, 0, len(manifests))
	for _, m := range manifests {
		events := make([]string, 0, len(m.Events))
		for _, e := range m.Events {
			events = append(events, string(e))
		}
		out = append(out, hooksdto.HookInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Events: events})
	}
	return out, nil
}

func (i *Interactor) Doctor(ctx context.Context) ([]hooksdto.DoctorResult, error) {
	reports, err := i.svc.Doctor(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]hooksdto.DoctorResult, 0, len(reports))
	for _, r := range reports {
		result := hooksdto.DoctorResult{
			Name:            r.Name,
			ChecksumValid:   r.ChecksumValid,
			BinaryReachable: r.BinaryReachable,
			LifecycleOK:     r.LifecycleOK,
		}
		if r.Err != nil {
			result.Error = r.Err.Error()
		}
		out = append(out, result)
	}
	return out, nil
}

func (i *Interactor) Dispatch(ctx context.Context, input hooksdto.EventInput) (hooksdto.DispatchOutput, error) {
	report, err := i.svc.Dispatch(ctx, domain.Event{
		Type:             domain.EventType(input.Type),
		Kind:             input.Kind,
		Minutes:          input.Minutes,
		Technique:        input.Technique,
		MeditationID:     input.MeditationID,
		Label:            input.Label,
		SecondsRemaining: input.SecondsRemaining,
		OccurredAt:       input.OccurredAt,
	})
	return hooksdto.DispatchOutput{Delivered: report.Delivered, Failed: report.Failed}, err
}
