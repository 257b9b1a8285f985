package orders

import (
	"fmt"
	"strings"
)

// Notification texts sent from the lifecycle transitions: administrator and
// approver proposals, supplier dispatches and submitter confirmations.
// Conversational replies (menus, prompts, error texts) live with the bot
// router.

func proposalMessage(o *Order, bySupplier map[string][]string, supplierOrder []string) string {
	var b strings.Builder
	b.WriteString("🆕 *Новая заявка*\n\n")
	fmt.Fprintf(&b, "📍 Точка: %s\n", o.Location)
	fmt.Fprintf(&b, "📅 Дата: %s\n", o.DateLabel)
	fmt.Fprintf(&b, "👤 Отправил: %s\n\n", o.Submitter.Name)

	for _, supplier := range supplierOrder {
		fmt.Fprintf(&b, "*%s:*\n", supplier)
		for _, line := range bySupplier[supplier] {
			fmt.Fprintf(&b, "• %s\n", line)
		}
		b.WriteString("\n")
	}

	b.WriteString("Отправьте *добро* для подтверждения или *отказ* для отклонения.")
	return b.String()
}

func submitterPendingMessage(o *Order) string {
	return fmt.Sprintf("✅ Заявка принята и отправлена на согласование.\n\n📍 %s\n📅 %s",
		o.Location, o.DateLabel)
}

func supplierDispatchMessage(o *Order, lines []string) string {
	var b strings.Builder
	b.WriteString("📦 *Заявка на поставку*\n\n")
	fmt.Fprintf(&b, "📍 Точка: %s\n", o.Location)
	fmt.Fprintf(&b, "📅 Дата поставки: %s\n\n", o.DateLabel)
	for _, line := range lines {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return b.String()
}

func submitterApprovedMessage(o *Order) string {
	var b strings.Builder
	b.WriteString("✅ *Заявка подтверждена и отправлена поставщикам!*\n\n")
	fmt.Fprintf(&b, "🆔 Номер заявки: %s\n\n", o.ID)
	b.WriteString("Управление заявкой:\n")
	fmt.Fprintf(&b, "• *отмена %s* — отменить\n", o.ID)
	fmt.Fprintf(&b, "• *редактировать %s <новый текст>* — изменить", o.ID)
	return b.String()
}

func submitterRejectedMessage(o *Order) string {
	return fmt.Sprintf("❌ Заявка отклонена администратором.\n\n📍 %s\n📅 %s",
		o.Location, o.DateLabel)
}

func supplierCancelMessage(o *Order, lines []string) string {
	var b strings.Builder
	b.WriteString("🚫 *Заявка отменена*\n\n")
	fmt.Fprintf(&b, "📍 Точка: %s\n", o.Location)
	fmt.Fprintf(&b, "📅 Дата поставки: %s\n\n", o.DateLabel)
	b.WriteString("Отменённые позиции:\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return b.String()
}

func supplierEditMessage(o *Order, lines []string) string {
	var b strings.Builder
	b.WriteString("✏️ *Заявка изменена*\n\n")
	fmt.Fprintf(&b, "📍 Точка: %s\n", o.Location)
	fmt.Fprintf(&b, "📅 Дата поставки: %s\n\n", o.DateLabel)
	b.WriteString("Актуальный состав:\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return b.String()
}

// PendingReminderMessage nudges the administrator about an order that has
// been waiting for approval too long.
func PendingReminderMessage(o *Order) string {
	return fmt.Sprintf("⏰ Заявка всё ещё ждёт подтверждения.\n\n📍 %s\n📅 %s\n👤 %s\n\nОтправьте *добро* или *отказ*.",
		o.Location, o.DateLabel, o.Submitter.Name)
}
