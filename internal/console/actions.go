package console

import (
	"context"
	"fmt"

	"stockdesk/m/internal/view"
)

// ConfirmDialogID is the element id of the yes/no dialog.
const ConfirmDialogID = "confirm-dialog"

// Answer returns a confirmation callback with a fixed answer.
func Answer(yes bool) func(prompt string) bool {
	return func(string) bool { return yes }
}

func deletePrompt(batch string) string {
	return fmt.Sprintf("Delete product with batch %s?", batch)
}

func confirmPrompt(orderID string) string {
	return fmt.Sprintf("Confirm order %s?", orderID)
}

// DeleteDialog describes the confirmation shown before deleting a product.
func DeleteDialog(batch string) view.Confirm {
	return view.Confirm{ID: ConfirmDialogID, Prompt: deletePrompt(batch), Action: view.DeleteProductPath(batch)}
}

// ConfirmOrderDialog describes the confirmation shown before confirming an order.
func ConfirmOrderDialog(orderID string) view.Confirm {
	return view.Confirm{ID: ConfirmDialogID, Prompt: confirmPrompt(orderID), Action: view.ConfirmOrderPath(orderID)}
}

// DeleteProduct asks confirm first; a declined confirmation does nothing.
func (c *Console) DeleteProduct(ctx context.Context, viewer, batch string, confirm func(prompt string) bool) (Outcome, error) {
	if !confirm(deletePrompt(batch)) {
		return Outcome{}, nil
	}
	if err := c.backend.DeleteProduct(ctx, batch); err != nil {
		return Outcome{}, c.fail(ctx, viewer, err, "Failed to delete product")
	}
	c.succeed(viewer, "Product deleted successfully")
	panels, err := c.Load(ctx, viewer, c.withDashboard(LoadProducts)...)
	return Outcome{Panels: panels}, err
}

// ConfirmOrder moves a draft order to confirmed after the viewer agrees.
func (c *Console) ConfirmOrder(ctx context.Context, viewer, orderID string, confirm func(prompt string) bool) (Outcome, error) {
	if !confirm(confirmPrompt(orderID)) {
		return Outcome{}, nil
	}
	if _, err := c.backend.ConfirmOrder(ctx, orderID); err != nil {
		return Outcome{}, c.fail(ctx, viewer, err, "Failed to confirm order")
	}
	c.succeed(viewer, "Order confirmed successfully")
	panels, err := c.Load(ctx, viewer, LoadDrafts, LoadOrders)
	return Outcome{Panels: panels}, err
}
