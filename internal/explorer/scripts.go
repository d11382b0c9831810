// internal/explorer/scripts.go
package explorer

// In-page collection scripts for the later pipeline stages. Each returns a
// JSON-serializable value; sampling caps live inside the scripts so only the
// sample crosses the wire.

const hiddenElementsScript = `
(() => {
  const hidden = [];
  const all = document.querySelectorAll('*');
  for (const el of all) {
    if (hidden.length >= 10) break;
    const style = window.getComputedStyle(el);
    const concealed = style.display === 'none'
      || style.visibility === 'hidden'
      || el.hasAttribute('hidden')
      || (el.tagName === 'INPUT' && el.type === 'hidden');
    if (!concealed) continue;
    const content = (el.textContent || el.value || '').trim();
    if (!content) continue;
    hidden.push({
      tag: el.tagName.toLowerCase(),
      id: el.id || '',
      class: el.className && el.className.toString ? el.className.toString() : '',
      content: content.substring(0, 100)
    });
  }
  return hidden;
})()
`

const dataAttributesScript = `
(() => {
  const found = [];
  const all = document.querySelectorAll('*');
  for (const el of all) {
    if (found.length >= 10) break;
    for (const attr of el.attributes) {
      if (found.length >= 10) break;
      if (!attr.name.startsWith('data-')) continue;
      found.push({
        element: el.tagName.toLowerCase(),
        attribute: attr.name,
        value: (attr.value || '').substring(0, 100)
      });
    }
  }
  return found;
})()
`

const flowProbeScript = `
(() => {
  const buttons = Array.from(document.querySelectorAll('button')).slice(0, 3).map(b => ({
    text: (b.innerText || '').trim().substring(0, 50),
    type: b.type || 'button'
  }));
  const links = Array.from(document.querySelectorAll('a[href]')).slice(0, 5).map(a => ({
    text: (a.innerText || '').trim().substring(0, 50),
    href: a.href
  }));
  return { title: document.title || '', buttons: buttons, links: links };
})()
`

// securityHeadersScript re-fetches the current document and reports which
// response headers the server sent. Runs as an awaited promise.
const securityHeadersScript = `
(async () => {
  try {
    const response = await fetch(window.location.href, { method: 'GET', cache: 'no-store' });
    const headers = {};
    for (const [name, value] of response.headers.entries()) {
      headers[name.toLowerCase()] = value;
    }
    return { ok: true, headers: headers };
  } catch (err) {
    return { ok: false, error: String(err) };
  }
})()
`

// csrfCountScript counts POST forms that carry no token-looking hidden input.
const csrfCountScript = `
(() => {
  let count = 0;
  for (const form of document.querySelectorAll('form')) {
    const method = (form.method || 'get').toLowerCase();
    if (method !== 'post') continue;
    const token = form.querySelector('input[name*="csrf"], input[name*="token"]');
    if (!token) count++;
  }
  return count;
})()
`

const performanceScript = `
(() => {
  const timing = performance.timing;
  const resources = performance.getEntriesByType('resource');
  let largest = 0;
  for (const r of resources) {
    const size = r.transferSize || 0;
    if (size > largest) largest = size;
  }
  return {
    page_load_time: Math.max(0, timing.loadEventEnd - timing.navigationStart),
    dom_content_loaded: Math.max(0, timing.domContentLoadedEventEnd - timing.navigationStart),
    resources_count: resources.length,
    largest_resource: largest
  };
})()
`
