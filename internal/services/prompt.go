// Package services – prompt construction
//
// This file builds the two prompt shapes sent to the language model: the
// conversational prompt (system instruction + cached history + current
// message) and the extraction prompt (fixed field list + the verbatim
// message). Prompts are Portuguese because the downstream audience is.
package services

import (
	"fmt"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

// chatSystemPrompt frames the model as a storefront attendant and tells it
// to lean on the supplied history.
const chatSystemPrompt = "Você é um assistente virtual. Use o histórico a seguir e a mensagem recebida para gerar uma resposta relevante."

// orderPromptTemplate instructs the model to answer with a positional JSON
// array. Field order is part of the contract with the parser: changing it
// breaks extraction.
const orderPromptTemplate = "Você é um assistente virtual que extrai informações de pedidos. Aqui estão os detalhes da mensagem do cliente:\n\n" +
	"%s\n\n" +
	"Por favor, extraia as seguintes informações e retorne os dados apenas em formato de vetor:\n" +
	"use essa nomenclatura nas posicoes dos vetores: 'numero_pedido', 'nome_cliente', 'telefone', 'itens', 'data_entrega', 'endereco', 'forma_pagamento', 'taxa_entrega', 'total'.\n" +
	"1. Número do pedido\n" +
	"2. Nome do cliente\n" +
	"3. Número do telefone\n" +
	"4. Itens do pedido (nome, quantidade, preço)\n" +
	"5. Data de entrega\n" +
	"6. Endereço para entrega\n" +
	"7. Forma de pagamento\n" +
	"8. Taxa de entrega\n" +
	"9. Total"

// BuildChatPrompt assembles the conversational prompt: the system
// instruction, then the cached history in order, then the current message as
// the final user turn.
func BuildChatPrompt(history []domain.Turn, message string) []domain.Turn {
	turns := make([]domain.Turn, 0, len(history)+2)
	turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: chatSystemPrompt})
	turns = append(turns, history...)
	turns = append(turns, domain.Turn{Role: domain.RoleUser, Content: message})
	return turns
}

// BuildOrderPrompt assembles the extraction prompt for a single message. The
// message is embedded verbatim; no history is included so unrelated chat
// cannot leak into the extraction.
func BuildOrderPrompt(message string) []domain.Turn {
	return []domain.Turn{
		{Role: domain.RoleUser, Content: fmt.Sprintf(orderPromptTemplate, message)},
	}
}
