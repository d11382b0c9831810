// internal/browser/scripts.go
package browser

// In-page scripts. Each is an expression that evaluates to a JSON-friendly
// value; the driver unmarshals the results into api/schemas types.

// snapshotScript extracts the whole page snapshot in one round trip: title,
// body text (capped), deduplicated links and images, form descriptors with
// 1-based indices and meta tags.
const snapshotScript = `(() => {
	const text = document.body ? document.body.innerText : '';

	const links = [...new Set(Array.from(document.querySelectorAll('a[href]'))
		.map(a => a.href)
		.filter(href => href && !href.startsWith('javascript:')))];

	const images = [...new Set(Array.from(document.querySelectorAll('img[src]'))
		.map(img => img.src))];

	const forms = Array.from(document.querySelectorAll('form')).map((form, index) => {
		const inputs = Array.from(form.querySelectorAll('input, select, textarea')).map(input => ({
			name: input.name || '',
			type: input.type || 'text',
			required: input.required || false,
			placeholder: input.placeholder || '',
			value: input.value || ''
		}));
		const buttons = Array.from(form.querySelectorAll('button, input[type="submit"]')).map(btn => ({
			text: (btn.textContent || '').trim() || btn.value || '',
			type: btn.type || 'button'
		}));
		const formText = (form.textContent || '').trim();
		const nearbyText = form.parentElement ? (form.parentElement.textContent || '').trim() : '';
		return {
			index: index + 1,
			action: form.action || '',
			method: (form.method || 'GET').toUpperCase(),
			inputs: inputs,
			buttons: buttons,
			classes: form.className || '',
			form_text: formText.substring(0, 200),
			nearby_text: nearbyText.substring(0, 300)
		};
	});

	const metas = {};
	document.querySelectorAll('meta').forEach(meta => {
		const name = meta.getAttribute('name') || meta.getAttribute('property');
		const content = meta.getAttribute('content');
		if (name && content) { metas[name] = content; }
	});

	return {
		title: document.title || '',
		content: text.substring(0, 5000),
		links: links,
		images: images,
		forms: forms,
		meta_tags: metas
	};
})()`

// collectFormsScript re-extracts only the form descriptors; used after
// overlay transitions where a full snapshot is unnecessary.
const collectFormsScript = `(() => {
	return Array.from(document.querySelectorAll('form')).map((form, index) => {
		const inputs = Array.from(form.querySelectorAll('input, select, textarea')).map(input => ({
			name: input.name || '',
			type: input.type || 'text',
			required: input.required || false,
			placeholder: input.placeholder || '',
			value: input.value || ''
		}));
		const buttons = Array.from(form.querySelectorAll('button, input[type="submit"]')).map(btn => ({
			text: (btn.textContent || '').trim() || btn.value || '',
			type: btn.type || 'button'
		}));
		const formText = (form.textContent || '').trim();
		const nearbyText = form.parentElement ? (form.parentElement.textContent || '').trim() : '';
		return {
			index: index + 1,
			action: form.action || '',
			method: (form.method || 'GET').toUpperCase(),
			inputs: inputs,
			buttons: buttons,
			classes: form.className || '',
			form_text: formText.substring(0, 200),
			nearby_text: nearbyText.substring(0, 300)
		};
	});
})()`

// collectTriggersScript scans the clickable element universe for anything
// matching the given keywords. Keywords are matched against text and
// aria-label as-is, and against data-testid, class and id with spaces
// stripped. %s is the JSON-encoded keyword array.
const collectTriggersScript = `((keywords) => {
	const candidates = Array.from(document.querySelectorAll(
		'button, [role="button"], .btn, input[type="button"], a, div[onclick], span[onclick]'));
	return candidates
		.filter(el => {
			const text = (el.textContent || '').toLowerCase();
			const ariaLabel = (el.getAttribute('aria-label') || '').toLowerCase();
			const dataTestId = (el.getAttribute('data-testid') || '').toLowerCase();
			const className = (typeof el.className === 'string' ? el.className : '').toLowerCase();
			const id = (el.id || '').toLowerCase();
			return keywords.some(keyword => {
				const compact = keyword.replace(/ /g, '');
				return text.includes(keyword) ||
					ariaLabel.includes(keyword) ||
					dataTestId.includes(compact) ||
					className.includes(compact) ||
					id.includes(compact);
			});
		})
		.map(el => ({
			text: (el.textContent || '').trim(),
			tag_name: el.tagName,
			class_name: (typeof el.className === 'string' ? el.className : ''),
			data_testid: el.getAttribute('data-testid') || '',
			aria_label: el.getAttribute('aria-label') || '',
			id: el.id || '',
			href: el.href || ''
		}));
})(%s)`

// queryScript resolves a selector to live elements and tags each with a
// page-unique id attribute so later calls can address them individually.
// It understands plain CSS plus the "tag:has-text('...')" extension, which
// filters elements of that tag by case-insensitive substring of their text.
const queryScript = `((selector) => {
	const hasText = selector.match(/^(.+?):has-text\('(.*)'\)$/);
	let matched;
	try {
		if (hasText) {
			const needle = hasText[2].replace(/\\'/g, "'").toLowerCase();
			matched = Array.from(document.querySelectorAll(hasText[1]))
				.filter(el => (el.textContent || '').toLowerCase().includes(needle));
		} else {
			matched = Array.from(document.querySelectorAll(selector));
		}
	} catch (e) {
		return [];
	}
	return matched.map(el => {
		let id = el.getAttribute('data-webscout-id');
		if (!id) {
			window.__webscoutNextID = (window.__webscoutNextID || 0) + 1;
			id = String(window.__webscoutNextID);
			el.setAttribute('data-webscout-id', id);
		}
		return id;
	});
})(%s)`

// elementStateScript reports visibility and enablement for one tagged
// element. Visibility follows the usual rules: a rendered box, not
// display:none, not visibility:hidden, opacity above zero.
const elementStateScript = `((id) => {
	const el = document.querySelector('[data-webscout-id="' + id + '"]');
	if (!el) { return { found: false, visible: false, enabled: false }; }
	const style = window.getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	const visible = rect.width > 0 && rect.height > 0 &&
		style.display !== 'none' && style.visibility !== 'hidden' &&
		style.opacity !== '0' && !el.hidden;
	const enabled = !el.disabled;
	return { found: true, visible: visible, enabled: enabled };
})(%s)`

// scrollIntoViewScript centers a tagged element in the viewport.
const scrollIntoViewScript = `((id) => {
	const el = document.querySelector('[data-webscout-id="' + id + '"]');
	if (!el) { return false; }
	el.scrollIntoView({ block: 'center', inline: 'center' });
	return true;
})(%s)`

// forcedClickScript synthesizes the mouse event sequence on a tagged
// element, skipping visibility checks. Middle tier of the click escalation.
const forcedClickScript = `((id) => {
	const el = document.querySelector('[data-webscout-id="' + id + '"]');
	if (!el) { return false; }
	for (const type of ['mousedown', 'mouseup', 'click']) {
		el.dispatchEvent(new MouseEvent(type, { bubbles: true, cancelable: true, view: window }));
	}
	return true;
})(%s)`

// scriptedClickScript clicks a tagged element from script, bypassing hit
// testing entirely. Last tier of the click escalation.
const scriptedClickScript = `((id) => {
	const el = document.querySelector('[data-webscout-id="' + id + '"]');
	if (!el) { return false; }
	el.click();
	return true;
})(%s)`

// fillScript sets a field's value and fires the events frameworks listen
// for. Arguments: selector, value.
const fillScript = `((selector, value) => {
	const el = document.querySelector(selector);
	if (!el) { return false; }
	el.focus();
	el.value = value;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	el.blur();
	return true;
})(%s, %s)`
