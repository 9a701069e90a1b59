package services

import (
	"strings"
	"testing"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

func TestBuildChatPrompt_Shape(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "oi"},
		{Role: domain.RoleAssistant, Content: "olá!"},
	}
	turns := BuildChatPrompt(history, "vocês entregam?")

	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	if turns[0].Role != domain.RoleSystem {
		t.Fatalf("first turn must be the system instruction, got %+v", turns[0])
	}
	if turns[1] != history[0] || turns[2] != history[1] {
		t.Fatalf("history must be preserved in order: %+v", turns[1:3])
	}
	last := turns[len(turns)-1]
	if last.Role != domain.RoleUser || last.Content != "vocês entregam?" {
		t.Fatalf("last turn must be the current message, got %+v", last)
	}
}

func TestBuildChatPrompt_EmptyHistory(t *testing.T) {
	turns := BuildChatPrompt(nil, "oi")
	if len(turns) != 2 {
		t.Fatalf("expected system + message, got %d turns", len(turns))
	}
}

func TestBuildOrderPrompt_EmbedsMessageVerbatim(t *testing.T) {
	msg := "*NÚMERO DO PEDIDO* 1042\n2x Pizza - Calabresa R$30,00"
	turns := BuildOrderPrompt(msg)

	if len(turns) != 1 || turns[0].Role != domain.RoleUser {
		t.Fatalf("expected a single user turn, got %+v", turns)
	}
	if !strings.Contains(turns[0].Content, msg) {
		t.Fatalf("prompt must embed the raw message")
	}
	// the positional contract is spelled out for the model
	for _, field := range []string{"numero_pedido", "nome_cliente", "telefone", "itens", "data_entrega", "endereco", "forma_pagamento", "taxa_entrega", "total"} {
		if !strings.Contains(turns[0].Content, field) {
			t.Fatalf("prompt missing field name %q", field)
		}
	}
}

func TestBuildOrderPrompt_NoHistoryLeak(t *testing.T) {
	turns := BuildOrderPrompt("pedido simples")
	if len(turns) != 1 {
		t.Fatalf("order prompt must not carry history, got %d turns", len(turns))
	}
}
