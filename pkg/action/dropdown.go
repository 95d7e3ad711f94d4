package action

import "fmt"

// SelectDropdownOption selects an option from a dropdown-like control.
// When optionID is non-empty it takes priority: the option is clicked
// directly by its own buffered coordinates (the common case for an
// already-expanded Ant Design Select/Cascader popup). Otherwise it falls
// back to dropdownID, detecting a native <select> vs. a custom popup
// component via a page-side probe and driving whichever is found.
func (h *Handler) SelectDropdownOption(dropdownID, optionText, optionID string) (Result, error) {
	if optionID != "" {
		if el, err := h.element(optionID); err == nil {
			res, clickErr := h.clickAt(el.CenterX, el.CenterY)
			if clickErr != nil {
				return res, clickErr
			}
			res.Extra = map[string]any{
				"selected_value": el.InnerText,
				"selector_type":  "ant_select_option",
			}
			res.Message = fmt.Sprintf("clicked dropdown option %q directly", optionText)
			return res, nil
		}
	}

	el, err := h.element(dropdownID)
	if err != nil {
		return fail(err.Error()), nil
	}

	raw, evalErr := h.page.Evaluate(selectDropdownScript, map[string]any{
		"centerX":    el.CenterX,
		"centerY":    el.CenterY,
		"targetText": optionText,
	})
	if evalErr != nil {
		return fail(fmt.Sprintf("dropdown select failed: %v", evalErr)), nil
	}

	outcome, _ := raw.(map[string]any)
	success, _ := outcome["success"].(bool)
	message, _ := outcome["message"].(string)
	selectorType, _ := outcome["selector_type"].(string)

	return Result{
		Success: success,
		Message: message,
		Extra:   map[string]any{"selector_type": selectorType},
	}, nil
}

// selectDropdownScript detects a native <select> under the element at the
// given coordinates and picks the best-matching option by exact, then
// contains, then substring match against targetText; falls back to an
// ant-select/cascader/combobox popup heuristic otherwise.
const selectDropdownScript = `(params) => {
	const el = document.elementFromPoint(params.centerX, params.centerY);
	if (!el) return {success: false, message: 'element not found at coordinates', selector_type: 'unknown'};

	const selectEl = el.closest('select');
	if (selectEl) {
		const options = Array.from(selectEl.options);
		let target = options.find(o => o.text === params.targetText)
			|| options.find(o => o.text.includes(params.targetText))
			|| options.find(o => params.targetText.includes(o.text));
		if (!target) return {success: false, message: 'no matching option found', selector_type: 'native_select'};
		selectEl.value = target.value;
		selectEl.dispatchEvent(new Event('change', {bubbles: true}));
		return {success: true, message: 'selected native option', selector_type: 'native_select'};
	}

	const popupSelectors = ['.ant-select-item-option', '.ant-cascader-menu-item', '[role="option"]'];
	for (const sel of popupSelectors) {
		const items = Array.from(document.querySelectorAll(sel));
		const match = items.find(i => i.textContent && i.textContent.trim() === params.targetText)
			|| items.find(i => i.textContent && i.textContent.includes(params.targetText));
		if (match) {
			match.click();
			return {success: true, message: 'selected popup option', selector_type: sel};
		}
	}
	return {success: false, message: 'no dropdown popup option matched', selector_type: 'unknown'};
}`
